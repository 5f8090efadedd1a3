package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the snapshot of each line within an order.
type OrderItem struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	LineNo    int                   `gorm:"column:line_no;not null;default:0"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Name      string                `gorm:"column:name;not null"`
	Image     *string               `gorm:"column:image"`
	Size      *string               `gorm:"column:size"`
	Addons    []types.AddonSnapshot `gorm:"column:addons;type:jsonb;serializer:json"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
