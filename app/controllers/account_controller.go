package controllers

import (
	"net/http"

	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/bind"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/middleware"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
)

// AccountController serves the logged-in user's profile and order history.
// All routes here sit behind RequireAuth.
type AccountController struct {
	auth   *services.AuthService
	users  *repositories.UserRepository
	orders *repositories.OrderRepository
}

func NewAccountController(auth *services.AuthService, users *repositories.UserRepository, orders *repositories.OrderRepository) *AccountController {
	return &AccountController{auth: auth, users: users, orders: orders}
}

// Show returns the profile together with the order history, oldest first.
func (c *AccountController) Show(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	user, err := c.users.FindByID(uid)
	if err != nil {
		renderError(w, r, err)
		return
	}
	orders, err := c.orders.ListByUser(uid)
	if err != nil {
		renderError(w, r, err)
		return
	}

	response.Success(w, resource.Map{
		"user":   resource.New(&resources.UserResource{}, user),
		"orders": resource.CollectionOf(&resources.OrderResource{}, orders),
	})
}

type profileInput struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"nullable,min=6"`
}

// Update changes name, address and optionally the password. Blank fields
// keep their current values.
func (c *AccountController) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	var in profileInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(uid, in.Name, in.Address, in.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	response.SuccessMessage(w, "Profile updated.", resource.New(&resources.UserResource{}, user))
}
