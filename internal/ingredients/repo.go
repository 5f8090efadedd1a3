package ingredients

import (
	"context"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for ingredients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ingredient *models.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	FindByNameKey(ctx context.Context, nameKey string) (*models.Ingredient, error)
	List(ctx context.Context, filters ListFilters) ([]models.Ingredient, error)
	ListWithRecipes(ctx context.Context) ([]models.Ingredient, error)
	Save(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilters narrows the ingredient listing.
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

func (r *repository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient.ID == uuid.Nil {
		ingredient.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) FindByNameKey(ctx context.Context, nameKey string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).Where("name_key = ?", nameKey).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Model(&models.Ingredient{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		query = query.Where("name_key LIKE ?", "%"+filters.Query+"%")
	}
	var rows []models.Ingredient
	err := query.Order("name_key ASC").Find(&rows).Error
	return rows, err
}

// ListWithRecipes returns the ingredients that carry a non-empty recipe.
func (r *repository) ListWithRecipes(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	err := r.db.WithContext(ctx).
		Where("recipe IS NOT NULL").
		Order("name_key ASC").
		Find(&rows).Error
	return rows, err
}

// Save writes every column of an existing ingredient.
func (r *repository) Save(ctx context.Context, ingredient *models.Ingredient) error {
	res := r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id = ?", ingredient.ID).
		Select("name", "name_key", "stock", "unit", "recipe", "status", "updated_at").
		Updates(ingredient)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ingredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
