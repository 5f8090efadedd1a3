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

	"github.com/angelmondragon/kitchenline-backend/api/routes"
	"github.com/angelmondragon/kitchenline-backend/internal/ingredients"
	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/internal/orders"
	product "github.com/angelmondragon/kitchenline-backend/internal/products"
	"github.com/angelmondragon/kitchenline-backend/internal/reviews"
	"github.com/angelmondragon/kitchenline-backend/internal/users"
	"github.com/angelmondragon/kitchenline-backend/pkg/config"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/metrics"
	"github.com/angelmondragon/kitchenline-backend/pkg/migrate"
	"github.com/angelmondragon/kitchenline-backend/pkg/redis"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	params, err := buildServices(cfg, logg, dbClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}
	params.Redis = redisClient

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

// buildServices wires repositories and services on one database client.
func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, registry *prometheus.Registry) (routes.Params, error) {
	gormDB := dbClient.DB()

	policy, err := stock.PolicyFromConfig(cfg.Stock)
	if err != nil {
		return routes.Params{}, err
	}

	usersRepo := users.NewRepository(gormDB)
	productRepo := product.NewProductRepository(gormDB)
	productService, err := product.NewService(productRepo)
	if err != nil {
		return routes.Params{}, err
	}

	inventoryRepo := inventory.NewRepository(gormDB)
	ledger, err := inventory.NewLedger(inventoryRepo, policy)
	if err != nil {
		return routes.Params{}, err
	}
	ingredientService, err := ingredients.NewService(ingredients.NewRepository(gormDB), dbClient, ledger, policy)
	if err != nil {
		return routes.Params{}, err
	}
	inventoryService, err := inventory.NewService(inventoryRepo, ingredientService, policy)
	if err != nil {
		return routes.Params{}, err
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		return routes.Params{}, err
	}

	orderRepo := orders.NewRepository(gormDB)
	orderService, err := orders.NewService(orderRepo, dbClient, productRepo, usersRepo, ledger, notificationService, orders.Options{
		DeliveryFee: cfg.Orders.DeliveryFeeAmount(),
		Metrics:     metrics.NewOrderMetrics(registry),
		Logger:      logg,
	})
	if err != nil {
		return routes.Params{}, err
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(gormDB), orderRepo, productRepo, usersRepo, dbClient)
	if err != nil {
		return routes.Params{}, err
	}

	return routes.Params{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Registry:      registry,
		Orders:        orderService,
		Ingredients:   ingredientService,
		Inventory:     inventoryService,
		Reviews:       reviewService,
		Products:      productService,
		Notifications: notificationService,
	}, nil
}
