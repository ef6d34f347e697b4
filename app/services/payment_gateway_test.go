package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
)

func testGateway() *MockGateway {
	return &MockGateway{declineSuffix: "1111"}
}

func validCard() models.PaymentRequest {
	return models.PaymentRequest{
		Method:     models.MethodCreditCard,
		CardNumber: "4242 4242 4242 4242",
		ExpiryDate: futureExpiry(),
		CVV:        "123",
		Amount:     decimal.NewFromFloat(10.99),
	}
}

func futureExpiry() string {
	next := time.Now().AddDate(1, 0, 0)
	return fmt.Sprintf("%02d/%02d", int(next.Month()), next.Year()%100)
}

func TestChargeApproved(t *testing.T) {
	result, err := testGateway().Charge(context.Background(), validCard())
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Equal(t, "Payment processed successfully", result.Message)
	assert.True(t, strings.HasPrefix(result.TransactionID, "TXN-"))
	assert.Equal(t, "10.99", result.Amount.StringFixed(2))
}

func TestChargeDeclineSuffix(t *testing.T) {
	req := validCard()
	req.CardNumber = "4000-0000-0000-1111" // separators are ignored

	result, err := testGateway().Charge(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Equal(t, "Payment failed: Invalid card number", result.Message)
	assert.Empty(t, result.TransactionID)
}

func TestChargeCollectsAllFieldErrors(t *testing.T) {
	req := models.PaymentRequest{Method: models.MethodDebitCard}

	_, err := testGateway().Charge(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Contains(t, verr.Fields, "card_number")
	assert.Contains(t, verr.Fields, "expiry_date")
	assert.Contains(t, verr.Fields, "cvv")
}

func TestChargeExpiredCard(t *testing.T) {
	req := validCard()
	req.ExpiryDate = "01/20"

	_, err := testGateway().Charge(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expiry_date")
	assert.NotContains(t, verr.Fields, "card_number")
}

func TestChargePayPalSkipsCardValidation(t *testing.T) {
	req := models.PaymentRequest{
		Method:      models.MethodPayPal,
		PayPalEmail: "demo@bookstore.com",
		Amount:      decimal.NewFromFloat(8.99),
	}

	result, err := testGateway().Charge(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Approved)
}

func TestChargePayPalRequiresAccountEmail(t *testing.T) {
	req := models.PaymentRequest{
		Method: models.MethodPayPal,
		Amount: decimal.NewFromFloat(8.99),
	}

	_, err := testGateway().Charge(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "paypal_email")
}

func TestChargeUnsupportedMethod(t *testing.T) {
	req := validCard()
	req.Method = "bitcoin"

	_, err := testGateway().Charge(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestChargeHonoursContextDuringDelay(t *testing.T) {
	g := &MockGateway{declineSuffix: "1111", delay: time.Minute}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.Charge(ctx, validCard())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
