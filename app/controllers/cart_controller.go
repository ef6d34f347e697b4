package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/bind"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// CartController manages the session-backed shopping cart.
type CartController struct {
	books *repositories.BookRepository
}

func NewCartController(books *repositories.BookRepository) *CartController {
	return &CartController{books: books}
}

// sessionCartKey is where the serialised cart lives inside the session.
const sessionCartKey = "cart"

// LoadCart returns the request's cart, empty if the session has none yet.
func LoadCart(r *http.Request) *models.Cart {
	cart := models.NewCart()
	session.FromCtx(r).GetJSON(sessionCartKey, cart)
	if cart.Items == nil {
		cart.Items = map[string]*models.CartItem{}
	}
	return cart
}

// SaveCart writes the cart back into the session and persists it.
func SaveCart(w http.ResponseWriter, r *http.Request, cart *models.Cart) error {
	sess := session.FromCtx(r)
	sess.Set(sessionCartKey, cart)
	return sess.Save(w)
}

// Show returns the cart contents and totals.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, resources.CartPayload(LoadCart(r)))
}

type cartAddInput struct {
	Title    string `json:"title" validate:"required"`
	Quantity string `json:"quantity"`
}

// Add puts a book in the cart. Quantity arrives as a raw string (it comes
// straight off a form) and defaults to one.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in cartAddInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	qty := 1
	if in.Quantity != "" {
		var err error
		if qty, err = models.ParseQuantity(in.Quantity); err != nil {
			renderError(w, r, err)
			return
		}
	}

	book, err := c.books.Find(in.Title)
	if err != nil {
		renderError(w, r, err)
		return
	}

	cart := LoadCart(r)
	if err := cart.Add(book, qty); err != nil {
		renderError(w, r, err)
		return
	}
	if err := SaveCart(w, r, cart); err != nil {
		renderError(w, r, err)
		return
	}

	response.SuccessMessage(w, book.Title+" added to cart", resources.CartPayload(cart))
}

type cartUpdateInput struct {
	Title    string `json:"title"    validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
}

// Update sets the quantity of an existing line; zero or less removes it.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var in cartUpdateInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	qty, err := models.ParseQuantity(in.Quantity)
	if err != nil {
		renderError(w, r, err)
		return
	}

	cart := LoadCart(r)
	if err := cart.UpdateQuantity(in.Title, qty); err != nil {
		renderError(w, r, err)
		return
	}
	if err := SaveCart(w, r, cart); err != nil {
		renderError(w, r, err)
		return
	}

	response.SuccessMessage(w, "cart updated", resources.CartPayload(cart))
}

// Remove drops a line from the cart. Removing an absent title succeeds.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	cart := LoadCart(r)
	cart.Remove(chi.URLParam(r, "title"))
	if err := SaveCart(w, r, cart); err != nil {
		renderError(w, r, err)
		return
	}
	response.SuccessMessage(w, "item removed", resources.CartPayload(cart))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	cart := LoadCart(r)
	cart.Clear()
	if err := SaveCart(w, r, cart); err != nil {
		renderError(w, r, err)
		return
	}
	response.SuccessMessage(w, "cart cleared", resources.CartPayload(cart))
}
