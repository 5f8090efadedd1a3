package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is an intermediate good produced from raw materials.
type Ingredient struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	NameKey   string             `gorm:"column:name_key;not null;uniqueIndex"`
	Stock     decimal.Decimal    `gorm:"column:stock;type:numeric(14,3);not null;default:0"`
	Unit      string             `gorm:"column:unit;not null"`
	Recipe    []types.RecipeLine `gorm:"column:recipe;type:jsonb;serializer:json"`
	Status    enums.StockStatus  `gorm:"column:status;type:stock_status;not null;default:'out_of_stock'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
