// Package bootstrap assembles the application: configuration, database,
// cache, sessions, queue, services, controllers and the route table. Both
// the server and the CLI build their world through here so tests and
// commands see the same wiring.
package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yasithJay/online-bookstore-final-assessment/app/controllers"
	"github.com/yasithJay/online-bookstore-final-assessment/app/jobs"
	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/routes"
	"github.com/yasithJay/online-bookstore-final-assessment/app/services"
	"github.com/yasithJay/online-bookstore-final-assessment/config"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/cache"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/database"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/event"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/queue"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/router"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

// App is the assembled application.
type App struct {
	DB       *gorm.DB
	Cache    cache.Store
	Sessions *session.Manager
	Queue    *queue.Manager
	Router   *router.Router

	Books  *repositories.BookRepository
	Users  *repositories.UserRepository
	Orders *repositories.OrderRepository

	Auth     *services.AuthService
	Gateway  services.Gateway
	Checkout *services.CheckoutService
	Mailer   *services.OrderMailer
}

// New builds the app against the configured database.
func New() (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("bootstrap: config: %w", err)
	}
	db, err := database.Connect()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB builds the app on an existing database handle. Tests pass an
// in-memory sqlite connection here.
func NewWithDB(db *gorm.DB) (*App, error) {
	store, err := newCacheStore()
	if err != nil {
		return nil, err
	}

	opts := session.DefaultOptions()
	opts.CookieName = config.SessionCookie()
	opts.TTL = config.SessionLifetime()
	sessions := session.NewManager(store, opts)

	app := &App{
		DB:       db,
		Cache:    store,
		Sessions: sessions,
	}

	app.Books = repositories.NewBookRepository(repositories.DefaultCatalog())
	app.Users = repositories.NewUserRepository(db)
	app.Orders = repositories.NewOrderRepository(db)

	app.Auth = services.NewAuthService(app.Users)
	app.Gateway = services.NewGateway()
	app.Checkout = services.NewCheckoutService(app.Orders, app.Gateway)
	app.Mailer = services.NewOrderMailer()

	app.Queue = newQueueManager(store)
	queue.UseDB(db)
	jobs.Configure(app.Mailer, app.Orders)
	app.Queue.Register(jobs.OrderConfirmationJobName, func() queue.Job {
		return &jobs.OrderConfirmationJob{}
	})

	registerListeners(app)

	app.Router = router.New()
	routes.RegisterAPI(app.Router, app.Sessions, routes.Controllers{
		Books:    controllers.NewBookController(app.Books),
		Cart:     controllers.NewCartController(app.Books),
		Checkout: controllers.NewCheckoutController(app.Checkout),
		Orders:   controllers.NewOrderController(app.Orders),
		Auth:     controllers.NewAuthController(app.Auth),
		Account:  controllers.NewAccountController(app.Auth, app.Users, app.Orders),
	})

	return app, nil
}

// registerListeners wires the domain events. Order confirmations go through
// the queue so mail delivery never blocks a checkout response.
func registerListeners(app *App) {
	event.Flush()
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		if err := app.Queue.Dispatch(&jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
			logger.Error("dispatch order confirmation", "order_id", order.ID, "error", err)
		}
	})
}

func newCacheStore() (cache.Store, error) {
	if config.SessionDriver() == "redis" {
		store, err := cache.NewRedis(config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, fmt.Errorf("bootstrap: redis: %w", err)
		}
		return store, nil
	}
	return cache.NewMemory(), nil
}

func newQueueManager(store cache.Store) *queue.Manager {
	if config.QueueDriver() == "redis" {
		if redisStore, ok := store.(*cache.Redis); ok {
			return queue.New(queue.NewRedisDriver(redisStore.Client()))
		}
	}
	return queue.New(queue.NewMemoryDriver())
}
