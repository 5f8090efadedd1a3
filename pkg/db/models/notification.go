package models

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
)

// Notification is an in-app message addressed to exactly one of a user or a role.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	Role      *enums.UserRole        `gorm:"column:role;type:user_role"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title     string                 `gorm:"column:title;not null"`
	Message   string                 `gorm:"column:message;not null"`
	OrderID   *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	IsRead    bool                   `gorm:"column:is_read;not null;default:false"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
