package models

import "github.com/shopspring/decimal"

// Payment methods accepted at checkout.
const (
	MethodCreditCard = "credit_card"
	MethodDebitCard  = "debit_card"
	MethodPayPal     = "paypal"
)

// PaymentRequest carries everything a gateway needs to charge for an order.
// Card fields are only meaningful for the card methods; PayPalEmail only
// for paypal.
type PaymentRequest struct {
	Method      string          `json:"method"`
	CardNumber  string          `json:"card_number,omitempty"`
	ExpiryDate  string          `json:"expiry_date,omitempty"`
	CVV         string          `json:"cvv,omitempty"`
	PayPalEmail string          `json:"paypal_email,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentResult is a gateway's verdict on a charge. A declined charge is a
// normal result, not an error: Approved is false and Message says why.
type PaymentResult struct {
	Approved      bool            `json:"approved"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
}
