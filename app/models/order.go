package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks where an order sits in its lifecycle.
type OrderStatus string

const (
	// StatusConfirmed is set once payment is approved; every placed order
	// starts here.
	StatusConfirmed OrderStatus = "Confirmed"
	// StatusCancelled marks an order voided after placement.
	StatusCancelled OrderStatus = "Cancelled"
)

// Order is a placed order: an immutable snapshot of the cart, shipping
// details and totals at checkout time. The primary key is a short
// human-readable reference rather than an auto-increment.
type Order struct {
	ID            string  `gorm:"primaryKey;size:16" json:"id"`
	UserID        *uint   `gorm:"index" json:"user_id,omitempty"`
	CustomerEmail string  `gorm:"size:255;not null;index" json:"customer_email"`

	ShipName    string `gorm:"size:255" json:"ship_name"`
	ShipEmail   string `gorm:"size:255" json:"ship_email"`
	ShipAddress string `gorm:"type:text" json:"ship_address"`
	ShipCity    string `gorm:"size:255" json:"ship_city"`
	ShipZip     string `gorm:"size:32" json:"ship_zip"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
	DiscountCode   string          `gorm:"size:32" json:"discount_code,omitempty"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`
	PaymentMethod  string          `gorm:"size:32" json:"payment_method"`
	TransactionID  string          `gorm:"size:64" json:"transaction_id"`
	Status         OrderStatus     `gorm:"size:32;default:Confirmed" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// OrderItem is one line of an order. Title and price are copied from the
// cart so later catalogue edits cannot rewrite history.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"size:16;not null;index" json:"-"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Genre     string          `gorm:"size:100" json:"genre"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"line_total"`
}
