package models

import "github.com/shopspring/decimal"

// Book is a catalogue entry. The catalogue is a fixed in-memory list, so
// books are plain values rather than gorm models; the title doubles as the
// natural key everywhere a book is referenced.
type Book struct {
	Title string          `json:"title"`
	Genre string          `json:"genre"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}
