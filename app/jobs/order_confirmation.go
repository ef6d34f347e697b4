// Package jobs holds the queued background work the store dispatches.
// Each job carries only identifiers; its dependencies are wired once at
// boot via Configure so jobs survive the serialize/deserialize round trip
// through the queue.
package jobs

import (
	"fmt"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
)

// OrderConfirmationJobName is the queue registration name for
// OrderConfirmationJob.
const OrderConfirmationJobName = "order_confirmation"

// OrderLoader supplies the order for a job; satisfied by
// repositories.OrderRepository.
type OrderLoader interface {
	FindByID(id string) (models.Order, error)
}

var (
	mailer *services.OrderMailer
	orders OrderLoader
)

// Configure wires the dependencies every job handler needs. Call once at
// boot before workers start.
func Configure(m *services.OrderMailer, o OrderLoader) {
	mailer = m
	orders = o
}

// OrderConfirmationJob emails the shopper their order summary. Queued right
// after checkout so a slow mail transport never blocks the response.
type OrderConfirmationJob struct {
	OrderID string `json:"order_id"`
}

func (j *OrderConfirmationJob) Handle() error {
	if mailer == nil || orders == nil {
		return fmt.Errorf("jobs: not configured")
	}
	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("order confirmation %s: %w", j.OrderID, err)
	}
	return mailer.SendConfirmation(order)
}
