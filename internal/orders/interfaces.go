package orders

import (
	"context"

	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	// CompareAndSetStatus moves the order from one status to another and
	// applies the extra column updates, only while the stored status still
	// equals from. It reports whether the row was updated.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ListFilters narrows order listings.
type ListFilters struct {
	UserID  *uuid.UUID
	RiderID *uuid.UUID
	Status  *enums.OrderStatus
}

// OrderList is one page of orders.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// productLoader resolves the catalog entries referenced by order lines.
type productLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// userLoader resolves riders during assignment.
type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// InventoryDeducter removes raw materials by ingredient name inside the
// caller's transaction.
type InventoryDeducter interface {
	DeductByName(ctx context.Context, tx *gorm.DB, reqs []inventory.Requirement) ([]inventory.Deduction, error)
}

// Notifier is the notification port the workflow emits through.
type Notifier = notifications.Notifier
