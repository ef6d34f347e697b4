package services

import (
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by the service layer. Controllers map these onto
// HTTP statuses; anything else is treated as an internal failure.
var (
	ErrDuplicateEmail     = errDef("an account with this email already exists")
	ErrInvalidEmail       = errDef("invalid email address")
	ErrInvalidCredentials = errDef("invalid email or password")
	ErrEmptyCart          = errDef("cart is empty")
	ErrInvalidDiscount    = errDef("invalid discount code")
	ErrUnsupportedMethod  = errDef("unsupported payment method")
)

type serviceError string

func errDef(msg string) serviceError { return serviceError(msg) }

func (e serviceError) Error() string { return string(e) }

// ValidationError collects per-field problems with user input. All failing
// fields are reported at once so the shopper can fix the whole form in one
// pass.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}
