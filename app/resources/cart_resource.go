package resources

import (
	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
)

// CartItemResource renders one cart line.
type CartItemResource struct{ resource.Base }

func (r *CartItemResource) ToArray(v interface{}) resource.Map {
	line := v.(models.CartItem)
	return resource.Map{
		"title":      line.Book.Title,
		"genre":      line.Book.Genre,
		"unit_price": line.Book.Price,
		"quantity":   line.Quantity,
		"line_total": line.LineTotal(),
	}
}

// CartPayload builds the full cart view: lines plus totals.
func CartPayload(cart *models.Cart) resource.Map {
	return resource.Map{
		"items":       resource.CollectionOf(&CartItemResource{}, cart.List()).ToArray(),
		"total_items": cart.TotalItems(),
		"total_price": cart.TotalPrice(),
	}
}
