package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
)

// NotificationDTO is the public representation of a notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	UserID    *uuid.UUID             `json:"userId,omitempty"`
	Role      *enums.UserRole        `json:"role,omitempty"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	OrderID   *uuid.UUID             `json:"orderId,omitempty"`
	IsRead    bool                   `json:"isRead"`
	ReadAt    *time.Time             `json:"readAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// PageDTO is one page of notifications.
type PageDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"nextCursor,omitempty"`
}

func ToPageDTO(res *ListResult) PageDTO {
	out := PageDTO{Notifications: make([]NotificationDTO, 0, len(res.Items)), NextCursor: res.Cursor}
	for _, n := range res.Items {
		out.Notifications = append(out.Notifications, NotificationDTO{
			ID:        n.ID,
			UserID:    n.UserID,
			Role:      n.Role,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			OrderID:   n.OrderID,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
