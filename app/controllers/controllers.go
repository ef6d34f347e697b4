// Package controllers holds the HTTP handlers behind the API routes. Each
// controller is a thin adapter: bind the request, call a service or
// repository, translate the outcome into a response envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
)

// renderError maps service and repository errors onto HTTP statuses.
// Anything unrecognised is logged and hidden behind a 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, models.ErrNotInCart):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidDiscount),
		errors.Is(err, services.ErrUnsupportedMethod):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail), errors.Is(err, services.ErrEmptyCart):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
