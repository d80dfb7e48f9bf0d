package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cafeteria-labs/coffeeshop-backend/api/controllers"
	"github.com/cafeteria-labs/coffeeshop-backend/api/middleware"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/cart"
	checkoutsvc "github.com/cafeteria-labs/coffeeshop-backend/internal/checkout"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/coffees"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/orders"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/tags"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/config"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/metrics"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/redis"
)

// NewRouter wires every HTTP route. idempotencyStore and rateLimitStore may
// be nil, in which case checkout runs without Idempotency-Key handling and
// cart creation is not throttled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	rateLimitStore redis.RateLimitStore,
	coffeeService coffees.Service,
	tagService tags.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/coffees", func(r chi.Router) {
			r.Get("/", controllers.CoffeeList(coffeeService, logg))
			r.Post("/", controllers.CoffeeCreate(coffeeService, logg))
			r.Get("/search", controllers.CoffeeSearch(coffeeService, logg))
			r.Get("/{coffeeId}", controllers.CoffeeGet(coffeeService, logg))
			r.Patch("/{coffeeId}", controllers.CoffeeUpdate(coffeeService, logg))
			r.Delete("/{coffeeId}", controllers.CoffeeDelete(coffeeService, logg))
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", controllers.TagList(tagService, logg))
			r.Post("/", controllers.TagCreate(tagService, logg))
			r.Get("/{tagId}", controllers.TagGet(tagService, logg))
			r.Delete("/{tagId}", controllers.TagDelete(tagService, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.With(middleware.RateLimit(middleware.RateLimitPolicy{
				Scope:  "cart_create",
				Limit:  cfg.RateLimit.CartCreateLimit,
				Window: cfg.RateLimit.CartCreateWindow,
			}, rateLimitStore, logg)).Post("/", controllers.CartGetOrCreate(cartService, logg))
			r.Get("/{cartId}", controllers.CartGet(cartService, logg))
			r.Post("/{cartId}/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/{cartId}/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/{cartId}/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.With(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg)).
			Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Get("/orders/{orderId}", controllers.OrderGet(ordersService, logg))
	})

	return r
}
