package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of one product from a completed order.
// (user_id, order_id) is unique.
type Review struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Rating      int       `gorm:"column:rating;not null"`
	Comment     string    `gorm:"column:comment;not null;default:''"`
	IsAnonymous bool      `gorm:"column:is_anonymous;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
