package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/config"
)

// Gateway charges a shopper for an order. A processed-but-declined charge
// comes back as a result with Approved=false; errors are reserved for bad
// requests and transport failures.
type Gateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error)
}

// NewGateway selects a gateway implementation from PAYMENT_DRIVER:
// "http" talks to a remote processor, anything else is the built-in mock.
func NewGateway() Gateway {
	if config.PaymentDriver() == "http" {
		return NewHTTPGateway(config.PaymentGatewayURL())
	}
	return NewMockGateway()
}

// MockGateway simulates a payment processor. Any well-formed card is
// approved unless its number ends in the configured decline suffix, which
// lets the decline path be exercised without a real processor.
type MockGateway struct {
	declineSuffix string
	delay         time.Duration
}

// NewMockGateway builds a mock gateway from the PAYMENT_* config keys.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		declineSuffix: config.PaymentDeclineSuffix(),
		delay:         config.PaymentDelay(),
	}
}

func (g *MockGateway) Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	switch req.Method {
	case models.MethodCreditCard, models.MethodDebitCard:
		if errs := validateCard(req); len(errs) > 0 {
			return models.PaymentResult{}, &ValidationError{Fields: errs}
		}
	case models.MethodPayPal:
		// No PayPal sandbox to call; the account identifier is the only
		// field the mock insists on.
		if strings.TrimSpace(req.PayPalEmail) == "" {
			return models.PaymentResult{}, &ValidationError{Fields: map[string]string{
				"paypal_email": "The paypal_email field is required.",
			}}
		}
	default:
		return models.PaymentResult{}, ErrUnsupportedMethod
	}

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return models.PaymentResult{}, ctx.Err()
		}
	}

	result := models.PaymentResult{Method: req.Method, Amount: req.Amount}

	if req.Method != models.MethodPayPal {
		digits := strings.NewReplacer(" ", "", "-", "").Replace(req.CardNumber)
		if strings.HasSuffix(digits, g.declineSuffix) {
			result.Message = "Payment failed: Invalid card number"
			return result, nil
		}
	}

	result.Approved = true
	result.Message = "Payment processed successfully"
	result.TransactionID = "TXN-" + strings.ToUpper(uuid.NewString()[:12])
	return result, nil
}

// validateCard collects every problem with the card fields so the shopper
// sees all of them at once.
func validateCard(req models.PaymentRequest) map[string]string {
	errs := map[string]string{}

	digits := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(req.CardNumber))
	if digits == "" {
		errs["card_number"] = "The card_number field is required."
	} else if !allDigits(digits) || len(digits) < 13 || len(digits) > 19 {
		errs["card_number"] = "The card_number must be 13 to 19 digits."
	}

	if expiry := strings.TrimSpace(req.ExpiryDate); expiry == "" {
		errs["expiry_date"] = "The expiry_date field is required."
	} else if !validExpiry(expiry) {
		errs["expiry_date"] = "The expiry_date must be a valid MM/YY date that is not in the past."
	}

	if cvv := strings.TrimSpace(req.CVV); cvv == "" {
		errs["cvv"] = "The cvv field is required."
	} else if !allDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
		errs["cvv"] = "The cvv must be 3 or 4 digits."
	}

	return errs
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// validExpiry accepts MM/YY expiries for this month or later.
func validExpiry(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year += 2000

	now := time.Now()
	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}
