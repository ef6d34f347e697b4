package resources

import (
	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
)

// OrderResource renders a placed order with its items.
type OrderResource struct{ resource.Base }

func (r *OrderResource) ToArray(v interface{}) resource.Map {
	o := v.(models.Order)
	items := make([]resource.Map, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, resource.Map{
			"title":      item.Title,
			"genre":      item.Genre,
			"unit_price": item.UnitPrice,
			"quantity":   item.Quantity,
			"line_total": item.LineTotal,
		})
	}
	return resource.Map{
		"id":             o.ID,
		"status":         o.Status,
		"customer_email": o.CustomerEmail,
		"ship_name":      o.ShipName,
		"ship_address":   o.ShipAddress,
		"ship_city":      o.ShipCity,
		"ship_zip":       o.ShipZip,
		"subtotal":       o.Subtotal,
		"discount":       o.DiscountAmount,
		"discount_code":  o.DiscountCode,
		"total":          o.Total,
		"payment_method": o.PaymentMethod,
		"transaction_id": o.TransactionID,
		"items":          items,
		"created_at":     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// UserResource renders an account profile.
type UserResource struct{ resource.Base }

func (r *UserResource) ToArray(v interface{}) resource.Map {
	u := v.(models.User)
	return resource.Map{
		"id":      u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"address": u.Address,
	}
}
