package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/auth"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

type userIDKey struct{}

// UserID returns the authenticated user's ID from the request context.
// Only set on routes behind RequireAuth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// WithUserID stores an authenticated user ID in ctx. Exposed for tests that
// drive handlers without the middleware.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequireAuth guards account routes. Browser clients authenticate with the
// session cookie (user_id set at login); API clients may send a Bearer JWT
// instead. Either is accepted; without both the request is rejected with a
// 401 envelope.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := session.FromCtx(r).GetInt("user_id"); ok && id > 0 {
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uint(id))))
			return
		}

		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ValidateToken(token)
			if err == nil && claims.UserID > 0 {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
				return
			}
		}

		response.Error(w, http.StatusUnauthorized, "Please log in to access this page.")
	})
}
