package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"go.uber.org/multierr"
)

type InventoryExpiryJobParams struct {
	Logger    *logger.Logger
	Inventory inventoryExpirer
	Notifier  roleNotifier
}

type inventoryExpirer interface {
	ExpireDue(ctx context.Context) ([]models.InventoryItem, error)
}

type roleNotifier interface {
	NotifyRole(ctx context.Context, role enums.UserRole, msg notifications.Message) (*models.Notification, error)
}

// NewInventoryExpiryJob flags raw materials past their expiration date and
// tells the admins which ones.
func NewInventoryExpiryJob(params InventoryExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &inventoryExpiryJob{logg: params.Logger, inventory: params.Inventory, notifier: params.Notifier}, nil
}

type inventoryExpiryJob struct {
	logg      *logger.Logger
	inventory inventoryExpirer
	notifier  roleNotifier
}

func (j *inventoryExpiryJob) Name() string { return "inventory-expiry" }

// Run keeps going past individual failures; the returned error combines all
// of them.
func (j *inventoryExpiryJob) Run(ctx context.Context) error {
	expired, errs := j.inventory.ExpireDue(ctx)
	for _, item := range expired {
		_, err := j.notifier.NotifyRole(ctx, enums.UserRoleAdmin, notifications.Message{
			Type:    enums.NotificationTypeStockExpired,
			Title:   "Stock expired",
			Message: fmt.Sprintf("%s (%s %s) passed its expiration date and was marked expired.", item.Name, item.Stock.String(), item.Unit),
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("notify expiry of %s: %w", item.Name, err))
		}
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"expired":  len(expired),
		"failures": len(multierr.Errors(errs)),
	}), "inventory expiry sweep complete")
	return errs
}
