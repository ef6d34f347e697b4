package controllers

import (
	"net/http"

	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/bind"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required,max=100"`
	Address  string `json:"address"`
}

// Register creates an account and logs the new user in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(in.Email, in.Password, in.Name, in.Address)
	if err != nil {
		renderError(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Regenerate()
	sess.Set("user_id", int(user.ID))
	if err := sess.Save(w); err != nil {
		renderError(w, r, err)
		return
	}

	response.CreatedMessage(w, "Registration successful! Welcome, "+user.Name+".",
		resource.New(&resources.UserResource{}, user))
}

type loginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials, rotates the session id and hands back a bearer
// token for API clients.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.Request(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Authenticate(in.Email, in.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Regenerate()
	sess.Set("user_id", int(user.ID))
	if err := sess.Save(w); err != nil {
		renderError(w, r, err)
		return
	}

	response.SuccessMessage(w, "Welcome back, "+user.Name+"!", resource.Map{
		"user":  resource.New(&resources.UserResource{}, user),
		"token": token,
	})
}

// Logout drops the whole session, cart included.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		renderError(w, r, err)
		return
	}
	response.SuccessMessage(w, "You have been logged out.", nil)
}
