package models

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when a quantity is not a positive
	// integer (or, for updates, not an integer at all).
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrNotInCart is returned when an operation targets a title that has
	// no line in the cart.
	ErrNotInCart = errors.New("item not in cart")
)

// CartItem is a single line in a cart. The book is snapshotted at add time,
// so a line survives catalogue changes unchanged.
type CartItem struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// LineTotal returns the price of the line (unit price times quantity).
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Book.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the items a visitor intends to buy, keyed by book title.
// It serialises to JSON for storage in the session, and is not safe for
// concurrent use; each request loads its own copy.
type Cart struct {
	Items map[string]*CartItem `json:"items"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: map[string]*CartItem{}}
}

// Add puts qty copies of book in the cart, merging with an existing line
// for the same title. qty must be at least 1.
func (c *Cart) Add(book Book, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if c.Items == nil {
		c.Items = map[string]*CartItem{}
	}
	if line, ok := c.Items[book.Title]; ok {
		line.Quantity += qty
		return nil
	}
	c.Items[book.Title] = &CartItem{Book: book, Quantity: qty}
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown titles are rejected.
func (c *Cart) UpdateQuantity(title string, qty int) error {
	line, ok := c.Items[title]
	if !ok {
		return ErrNotInCart
	}
	if qty <= 0 {
		delete(c.Items, title)
		return nil
	}
	line.Quantity = qty
	return nil
}

// Remove drops the line for title. Removing an absent title is a no-op.
func (c *Cart) Remove(title string) {
	delete(c.Items, title)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = map[string]*CartItem{}
}

// Get returns the line for title, if present.
func (c *Cart) Get(title string) (*CartItem, bool) {
	line, ok := c.Items[title]
	return line, ok
}

// List returns the cart lines ordered by title, for stable display and
// order snapshots.
func (c *Cart) List() []CartItem {
	items := make([]CartItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, *line)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Book.Title < items[j].Book.Title })
	return items
}

// TotalPrice returns the sum of all line totals.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.LineTotal())
	}
	return total
}

// TotalItems returns the number of units across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, line := range c.Items {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ParseQuantity converts a raw form value into an integer quantity.
// Non-integer input yields ErrInvalidQuantity; range checks are left to
// the cart operation using the value.
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}
