package reviews

import (
	"context"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists reviews and computes their per-product aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	ExistsForUserOrder(ctx context.Context, userID, orderID uuid.UUID) (bool, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, string, error)
	Stats(ctx context.Context, productID uuid.UUID) (RatingStats, error)
}

// RatingStats is the sum and count of a product's ratings.
type RatingStats struct {
	Sum   int64
	Count int64
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a reviews repository to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) ExistsForUserOrder(ctx context.Context, userID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Count(&count).Error
	return count > 0, err
}

// ListByProduct returns newest reviews first along with the cursor of the
// following page.
func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Review
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	page, next := pagination.Trim(rows, params.Limit, func(rv models.Review) pagination.Cursor {
		return pagination.Cursor{CreatedAt: rv.CreatedAt, ID: rv.ID}
	})
	return page, next, nil
}

func (r *repository) Stats(ctx context.Context, productID uuid.UUID) (RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(SUM(rating), 0) AS sum, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&stats).Error
	return stats, err
}
