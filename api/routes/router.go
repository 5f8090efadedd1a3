package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/kitchenline-backend/api/controllers"
	"github.com/angelmondragon/kitchenline-backend/api/middleware"
	"github.com/angelmondragon/kitchenline-backend/internal/ingredients"
	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/internal/orders"
	product "github.com/angelmondragon/kitchenline-backend/internal/products"
	"github.com/angelmondragon/kitchenline-backend/internal/reviews"
	"github.com/angelmondragon/kitchenline-backend/pkg/config"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/kitchenline-backend/pkg/redis"
)

type redisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params collects everything the HTTP surface is built from.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redisStore
	Registry *prometheus.Registry

	Orders        orders.Service
	Ingredients   ingredients.Service
	Inventory     inventory.Service
	Reviews       reviews.Service
	Products      product.Service
	Notifications notifications.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	var httpMetrics *metrics.HTTPMetrics
	if p.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(p.Registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.Dependency{Name: "postgres", Pinger: p.DB},
			controllers.Dependency{Name: "redis", Pinger: p.Redis},
		))
	})

	if p.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.IPRateLimitPolicy(cfg.RateLimit), p.Redis, logg))

		r.Get("/products/{productId}", controllers.GetProduct(p.Products, logg))
		r.Get("/products/{productId}/reviews", controllers.ListProductReviews(p.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.UserRateLimit(middleware.UserRateLimitPolicy(cfg.RateLimit), p.Redis, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))

			adminOnly := middleware.RequireRole(logg, enums.UserRoleAdmin)
			staffOnly := middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleRider)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.PlaceOrder(p.Orders, logg))
				r.With(staffOnly).Get("/", controllers.ListOrders(p.Orders, logg))
				r.Get("/user/{userId}", controllers.ListUserOrders(p.Orders, logg))
				r.Get("/{orderId}", controllers.GetOrder(p.Orders, logg))
				r.With(staffOnly).Patch("/{orderId}/status", controllers.UpdateOrderStatus(p.Orders, logg))
				r.Patch("/{orderId}/cancel", controllers.CancelOrder(p.Orders, logg))
				r.With(adminOnly).Patch("/{orderId}/rider", controllers.AssignRider(p.Orders, logg))
				r.With(middleware.RequireRole(logg, enums.UserRoleRider)).
					Patch("/{orderId}/delivery-proof", controllers.SubmitDeliveryProof(p.Orders, logg))
			})

			r.Route("/ingredients", func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.CreateIngredient(p.Ingredients, logg))
				r.Get("/", controllers.ListIngredients(p.Ingredients, logg))
				r.Get("/{id}", controllers.GetIngredient(p.Ingredients, logg))
				r.Patch("/{id}", controllers.UpdateIngredient(p.Ingredients, logg))
				r.Delete("/{id}", controllers.DeleteIngredient(p.Ingredients, logg))
				r.Post("/{id}/add-stock", controllers.AddIngredientStock(p.Ingredients, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", controllers.CreateInventoryItem(p.Inventory, logg))
				r.Get("/", controllers.ListInventoryItems(p.Inventory, logg))
				r.Get("/{id}", controllers.GetInventoryItem(p.Inventory, logg))
				r.Patch("/{id}", controllers.UpdateInventoryItem(p.Inventory, logg))
				r.Delete("/{id}", controllers.DeleteInventoryItem(p.Inventory, logg))
			})

			r.Post("/reviews", controllers.CreateReview(p.Reviews, logg))
			r.With(adminOnly).Post("/products/{productId}/rating/recompute", controllers.RecomputeProductRating(p.Reviews, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(p.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
			})
		})
	})

	return r
}
