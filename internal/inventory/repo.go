package inventory

import (
	"context"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for raw materials.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error)
	FindByNameKey(ctx context.Context, nameKey string) (*models.InventoryItem, error)
	FindByNameKeys(ctx context.Context, nameKeys []string) ([]models.InventoryItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error)
	FindExpiredUnflagged(ctx context.Context, now time.Time) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Decrement(ctx context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilters narrows the inventory listing.
type ListFilters struct {
	Status *enums.StockStatus
	Query  string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository backed by the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *repository) FindByNameKey(ctx context.Context, nameKey string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("name_key = ?", nameKey).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByNameKeys(ctx context.Context, nameKeys []string) ([]models.InventoryItem, error) {
	if len(nameKeys) == 0 {
		return nil, nil
	}
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Where("name_key IN ?", nameKeys).Find(&items).Error
	return items, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		query = query.Where("name_key LIKE ?", "%"+filters.Query+"%")
	}
	var items []models.InventoryItem
	err := query.Order("name_key ASC").Find(&items).Error
	return items, err
}

func (r *repository) FindExpiredUnflagged(ctx context.Context, now time.Time) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("expiration_date IS NOT NULL AND expiration_date <= ? AND status <> ?", now, enums.StockStatusExpired).
		Order("expiration_date ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Decrement removes qty from stock only while enough remains. It reports false
// when the guard rejected the update.
func (r *repository) Decrement(ctx context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
