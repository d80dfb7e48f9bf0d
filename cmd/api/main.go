package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cafeteria-labs/coffeeshop-backend/api/controllers"
	"github.com/cafeteria-labs/coffeeshop-backend/api/routes"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/cart"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/checkout"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/coffees"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/orders"
	"github.com/cafeteria-labs/coffeeshop-backend/internal/tags"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/config"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/instance"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/metrics"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/migrate"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient, migrate.DefaultDir); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"database": dbClient}
	var (
		idempotencyStore redis.IdempotencyStore
		rateLimitStore   redis.RateLimitStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
		idempotencyStore = redisClient
		rateLimitStore = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, checkout idempotency and cart rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	coffeeRepo := coffees.NewRepository(dbClient.DB())
	tagRepo := tags.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	coffeeService, err := coffees.NewService(coffeeRepo, dbClient, logg)
	requireService(ctx, logg, "coffee", err)
	tagService, err := tags.NewService(tagRepo, dbClient)
	requireService(ctx, logg, "tag", err)
	cartService, err := cart.NewService(cartRepo, dbClient, coffeeRepo, logg)
	requireService(ctx, logg, "cart", err)
	checkoutService, err := checkout.NewService(dbClient, cartRepo, ordersRepo, coffeeRepo, checkoutMetrics, logg)
	requireService(ctx, logg, "checkout", err)
	ordersService, err := orders.NewService(ordersRepo)
	requireService(ctx, logg, "orders", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			httpMetrics,
			readiness,
			idempotencyStore,
			rateLimitStore,
			coffeeService,
			tagService,
			cartService,
			checkoutService,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}

func requireService(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+name+" service", err)
	os.Exit(1)
}
