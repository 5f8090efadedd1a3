package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a raw material. NameKey is the normalized name backing the
// unique index.
type InventoryItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string            `gorm:"column:name;not null"`
	NameKey        string            `gorm:"column:name_key;not null;uniqueIndex"`
	Stock          decimal.Decimal   `gorm:"column:stock;type:numeric(14,3);not null;default:0"`
	Unit           string            `gorm:"column:unit;not null"`
	ExpirationDate *time.Time        `gorm:"column:expiration_date"`
	Status         enums.StockStatus `gorm:"column:status;type:stock_status;not null;default:'out_of_stock'"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
