package services

import (
	"fmt"
	"strings"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/mail"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/metrics"
)

// OrderMailer sends the order confirmation email. Delivery goes through
// pkg/mail, so MAIL_DRIVER decides whether it hits SMTP or the log.
type OrderMailer struct{}

func NewOrderMailer() *OrderMailer {
	return &OrderMailer{}
}

// SendConfirmation emails the shopper a summary of their order.
func (m *OrderMailer) SendConfirmation(order models.Order) error {
	err := mail.To(order.CustomerEmail).
		Subject(fmt.Sprintf("Order Confirmation - Order #%s", order.ID)).
		Text(confirmationBody(order)).
		Send()
	if err != nil {
		metrics.RecordEmail("failed")
		return fmt.Errorf("order confirmation %s: %w", order.ID, err)
	}
	metrics.RecordEmail("sent")
	return nil
}

func confirmationBody(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Date: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total Amount: $%s\n", order.Total.StringFixed(2))
	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  - %s x%d @ $%s\n", item.Title, item.Quantity, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "Shipping Address: %s, %s %s\n", order.ShipAddress, order.ShipCity, order.ShipZip)
	return b.String()
}
