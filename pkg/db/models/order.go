package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a customer order. Items and Address are snapshots taken at
// placement and never rewritten.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Address              types.Address       `gorm:"column:address;type:jsonb;not null"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	ReferenceNumber      *string             `gorm:"column:reference_number"`
	ProofImage           *string             `gorm:"column:proof_image"`
	DeliveryInstructions *string             `gorm:"column:delivery_instructions"`
	Status               enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	IsReviewed           bool                `gorm:"column:is_reviewed;not null;default:false"`
	IsWalkIn             bool                `gorm:"column:is_walk_in;not null;default:false"`
	CancellationReason   *string             `gorm:"column:cancellation_reason"`
	RiderID              *uuid.UUID          `gorm:"column:rider_id;type:uuid"`
	DeliveryProofImage   *string             `gorm:"column:delivery_proof_image"`
	DeliveryFee          decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	Total                decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	InventoryDeductedAt  *time.Time          `gorm:"column:inventory_deducted_at"`
	CompletedAt          *time.Time          `gorm:"column:completed_at"`
	CancelledAt          *time.Time          `gorm:"column:cancelled_at"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
