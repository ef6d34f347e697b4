package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/middleware"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// OrderController serves order confirmations.
type OrderController struct {
	orders *repositories.OrderRepository
}

func NewOrderController(orders *repositories.OrderRepository) *OrderController {
	return &OrderController{orders: orders}
}

// Show returns one order. Access is restricted to the order's owner, or,
// for guests, to the order the current session just placed; anyone else
// sees a 404 rather than a hint that the reference exists.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := c.orders.FindByID(id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	allowed := false
	if uid, ok := middleware.UserID(r.Context()); ok && order.UserID != nil && *order.UserID == uid {
		allowed = true
	}
	if !allowed && order.UserID != nil {
		// The route is public for guest confirmations, so a logged-in
		// shopper's id comes off the session rather than RequireAuth.
		if id, ok := session.FromCtx(r).GetInt("user_id"); ok && uint(id) == *order.UserID {
			allowed = true
		}
	}
	if !allowed {
		if last, ok := session.FromCtx(r).GetString(sessionLastOrderKey); ok && last == id {
			allowed = true
		}
	}
	if !allowed {
		response.NotFound(w)
		return
	}

	resource.New(&resources.OrderResource{}, order).Respond(w)
}
