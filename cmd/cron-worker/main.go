package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/kitchenline-backend/internal/cron"
	"github.com/angelmondragon/kitchenline-backend/internal/ingredients"
	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/pkg/config"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/metrics"
	"github.com/angelmondragon/kitchenline-backend/pkg/migrate"
	"github.com/angelmondragon/kitchenline-backend/pkg/redis"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	registry, err := buildJobs(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker"), cfg.Cron.Interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*cron.Registry, error) {
	gormDB := dbClient.DB()

	policy, err := stock.PolicyFromConfig(cfg.Stock)
	if err != nil {
		return nil, err
	}

	inventoryRepo := inventory.NewRepository(gormDB)
	ledger, err := inventory.NewLedger(inventoryRepo, policy)
	if err != nil {
		return nil, err
	}
	ingredientService, err := ingredients.NewService(ingredients.NewRepository(gormDB), dbClient, ledger, policy)
	if err != nil {
		return nil, err
	}
	inventoryService, err := inventory.NewService(inventoryRepo, ingredientService, policy)
	if err != nil {
		return nil, err
	}
	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		return nil, err
	}

	expiry, err := cron.NewInventoryExpiryJob(cron.InventoryExpiryJobParams{
		Logger:    logg,
		Inventory: inventoryService,
		Notifier:  notificationService,
	})
	if err != nil {
		return nil, err
	}
	cleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:    logg,
		Store:     notificationService,
		Retention: cfg.Cron.NotificationRetention(),
	})
	if err != nil {
		return nil, err
	}
	return cron.NewRegistry(expiry, cleanup)
}
