package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item. Catalog fields are managed elsewhere; this
// service only maintains the rating stats.
type Product struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string                    `gorm:"column:name;not null"`
	Image         *string                   `gorm:"column:image"`
	Price         decimal.Decimal           `gorm:"column:price;type:numeric(12,2);not null"`
	Ingredients   []types.ProductIngredient `gorm:"column:ingredients;type:jsonb;serializer:json"`
	AverageRating decimal.Decimal           `gorm:"column:average_rating;type:numeric(2,1);not null;default:0"`
	ReviewCount   int                       `gorm:"column:review_count;not null;default:0"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
