// Package routes wires every API endpoint to its controller.
package routes

import (
	"net/http"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/app/controllers"
	"github.com/yasithJay/online-bookstore-final-assessment/config"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/metrics"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/middleware"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/reqid"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/response"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/router"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// Controllers bundles every controller the API mounts. Built once in
// bootstrap and handed here so the route table stays free of wiring.
type Controllers struct {
	Books    *controllers.BookController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrderController
	Auth     *controllers.AuthController
	Account  *controllers.AccountController
}

// RegisterAPI mounts the whole API surface, the health probe and the
// Prometheus scrape endpoint.
func RegisterAPI(r *router.Router, sessions *session.Manager, c Controllers) {
	limiter := middleware.NewRateLimiter(config.RateLimitPerMinute(), time.Minute)

	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		limiter.Middleware(),
		sessions.Middleware(),
	)

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	api.Get("/books", "books.index", c.Books.List)
	api.Get("/books/{title}", "books.show", c.Books.Show)

	api.Get("/cart", "cart.show", c.Cart.Show)
	api.Post("/cart/items", "cart.add", c.Cart.Add)
	api.Patch("/cart/items", "cart.update", c.Cart.Update)
	api.Delete("/cart/items/{title}", "cart.remove", c.Cart.Remove)
	api.Delete("/cart", "cart.clear", c.Cart.Clear)

	api.Post("/checkout", "checkout.create", c.Checkout.Create)
	api.Get("/orders/{id}", "orders.show", c.Orders.Show)

	api.Post("/register", "auth.register", c.Auth.Register)
	api.Post("/login", "auth.login", c.Auth.Login)
	api.Post("/logout", "auth.logout", c.Auth.Logout)

	account := api.Group("/account", middleware.RequireAuth)
	account.Get("", "account.show", c.Account.Show)
	account.Put("/profile", "account.update", c.Account.Update)
}
