package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/collection"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/event"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/metrics"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/validate"
)

// EventOrderPlaced fires after an order is persisted. The payload is the
// saved models.Order.
const EventOrderPlaced = "order.placed"

// ShippingInfo is the delivery form submitted at checkout.
type ShippingInfo struct {
	Name    string `json:"name"     validate:"required,max=100"`
	Email   string `json:"email"    validate:"required,email"`
	Address string `json:"address"  validate:"required"`
	City    string `json:"city"     validate:"required"`
	Zip     string `json:"zip_code" validate:"required,between=3,10"`
}

// OrderStore is the persistence surface CheckoutService needs. Satisfied by
// repositories.OrderRepository.
type OrderStore interface {
	Create(order *models.Order) error
}

// Discount codes honoured at checkout, rate as a fraction of the subtotal.
// Codes are matched case-insensitively.
var discountRates = map[string]decimal.Decimal{
	"SAVE10":    decimal.NewFromFloat(0.10),
	"WELCOME20": decimal.NewFromFloat(0.20),
}

// CheckoutService turns a cart into a paid, persisted order.
type CheckoutService struct {
	orders  OrderStore
	gateway Gateway
}

func NewCheckoutService(orders OrderStore, gateway Gateway) *CheckoutService {
	return &CheckoutService{orders: orders, gateway: gateway}
}

// PlaceOrder runs the whole checkout: validates the shipping form, prices
// the cart with any discount, charges the gateway, and on approval persists
// an order snapshot, clears the cart and fires EventOrderPlaced.
//
// A declined charge is not an error: the zero Order and the gateway's
// result come back with a nil error, and the cart is left intact.
func (s *CheckoutService) PlaceOrder(
	ctx context.Context,
	cart *models.Cart,
	ship ShippingInfo,
	payment models.PaymentRequest,
	discountCode string,
	userID *uint,
) (models.Order, models.PaymentResult, error) {
	if cart.IsEmpty() {
		return models.Order{}, models.PaymentResult{}, ErrEmptyCart
	}

	if errs := validate.Struct(ship); validate.HasErrors(errs) {
		return models.Order{}, models.PaymentResult{}, &ValidationError{Fields: errs}
	}

	subtotal := cart.TotalPrice()
	discount := decimal.Zero
	code := strings.ToUpper(strings.TrimSpace(discountCode))
	if code != "" {
		rate, ok := discountRates[code]
		if !ok {
			return models.Order{}, models.PaymentResult{}, ErrInvalidDiscount
		}
		discount = subtotal.Mul(rate).Round(2)
	}
	total := subtotal.Sub(discount)

	payment.Amount = total
	result, err := s.gateway.Charge(ctx, payment)
	if err != nil {
		return models.Order{}, models.PaymentResult{}, err
	}
	if !result.Approved {
		metrics.RecordPayment(payment.Method, "declined")
		return models.Order{}, result, nil
	}
	metrics.RecordPayment(payment.Method, "approved")

	order := models.Order{
		ID:             newOrderID(),
		UserID:         userID,
		CustomerEmail:  NormalizeEmail(ship.Email),
		ShipName:       ship.Name,
		ShipEmail:      NormalizeEmail(ship.Email),
		ShipAddress:    ship.Address,
		ShipCity:       ship.City,
		ShipZip:        ship.Zip,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DiscountCode:   code,
		Total:          total,
		PaymentMethod:  payment.Method,
		TransactionID:  result.TransactionID,
		Status:         models.StatusConfirmed,
		Items: collection.Map(cart.List(), func(line models.CartItem) models.OrderItem {
			return models.OrderItem{
				Title:     line.Book.Title,
				Genre:     line.Book.Genre,
				UnitPrice: line.Book.Price,
				Quantity:  line.Quantity,
				LineTotal: line.LineTotal(),
			}
		}),
	}

	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, models.PaymentResult{}, err
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID,
		"total", order.Total.StringFixed(2),
		"method", order.PaymentMethod,
	)
	event.Fire(EventOrderPlaced, order)

	cart.Clear()
	return order, result, nil
}

// newOrderID returns a short uppercase order reference.
func newOrderID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
