package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/mail"
)

type captureTransport struct {
	from string
	to   []string
	raw  []byte
}

func (t *captureTransport) Deliver(from string, to []string, raw []byte) error {
	t.from = from
	t.to = to
	t.raw = raw
	return nil
}

func TestSendConfirmation(t *testing.T) {
	capture := &captureTransport{}
	mail.SetTransport(capture)
	defer mail.SetTransport(&mail.LogTransport{})

	order := models.Order{
		ID:            "A1B2C3D4",
		CustomerEmail: "demo@bookstore.com",
		ShipAddress:   "123 Demo Street",
		ShipCity:      "Demo City",
		ShipZip:       "12345",
		Total:         decimal.NewFromFloat(30.97),
		CreatedAt:     time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Title: "The Great Gatsby", Quantity: 2, UnitPrice: decimal.NewFromFloat(10.99)},
		},
	}

	require.NoError(t, NewOrderMailer().SendConfirmation(order))

	require.Equal(t, []string{"demo@bookstore.com"}, capture.to)
	body := string(capture.raw)
	assert.Contains(t, body, "Order Confirmation - Order #A1B2C3D4")
	assert.Contains(t, body, "Total Amount: $30.97")
	assert.Contains(t, body, "The Great Gatsby x2 @ $10.99")
	assert.Contains(t, body, "123 Demo Street, Demo City 12345")
}
