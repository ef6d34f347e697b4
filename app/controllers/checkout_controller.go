package controllers

import (
	"net/http"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/bind"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/middleware"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// sessionLastOrderKey lets a guest review the order they just placed.
const sessionLastOrderKey = "last_order_id"

// CheckoutController drives the checkout flow.
type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type checkoutInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip_code"`

	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	ExpiryDate    string `json:"expiry_date"`
	CVV           string `json:"cvv"`
	PayPalEmail   string `json:"paypal_email"`

	DiscountCode string `json:"discount_code"`
}

// Create places an order from the session cart. Field-level validation is
// left to the checkout service and gateway so the shopper gets every
// problem reported in one response.
func (c *CheckoutController) Create(w http.ResponseWriter, r *http.Request) {
	var in checkoutInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cart := LoadCart(r)

	var userID *uint
	if id, ok := middleware.UserID(r.Context()); ok {
		userID = &id
	} else if id, ok := session.FromCtx(r).GetInt("user_id"); ok && id > 0 {
		uid := uint(id)
		userID = &uid
	}

	ship := services.ShippingInfo{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		City:    in.City,
		Zip:     in.Zip,
	}
	payment := models.PaymentRequest{
		Method:      in.PaymentMethod,
		CardNumber:  in.CardNumber,
		ExpiryDate:  in.ExpiryDate,
		CVV:         in.CVV,
		PayPalEmail: in.PayPalEmail,
	}

	order, result, err := c.checkout.PlaceOrder(r.Context(), cart, ship, payment, in.DiscountCode, userID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !result.Approved {
		response.Error(w, http.StatusPaymentRequired, result.Message)
		return
	}

	sess := session.FromCtx(r)
	sess.Set(sessionCartKey, cart)
	sess.Set(sessionLastOrderKey, order.ID)
	sess.Flash("notice", "Payment successful! Your order has been confirmed.")
	if err := sess.Save(w); err != nil {
		renderError(w, r, err)
		return
	}

	response.CreatedMessage(w, result.Message, resource.Map{
		"order":   resource.New(&resources.OrderResource{}, order),
		"payment": result,
	})
}
