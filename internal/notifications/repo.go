package notifications

import (
	"context"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists notifications. Reads and read-marks are always scoped
// to an audience.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	MarkRead(ctx context.Context, audience audience, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, audience audience, now time.Time) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// audience is everything a user can see: their own notifications plus the
// ones broadcast to their role.
type audience struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// visible starts a notifications query limited to what a can see.
func (r *gormRepository) visible(ctx context.Context, a audience) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Notification{})
	if a.Role == "" {
		return q.Where("user_id = ?", a.UserID)
	}
	return q.Where("(user_id = ? OR role = ?)", a.UserID, a.Role)
}

func markedRead(now time.Time) map[string]any {
	return map[string]any{"is_read": true, "read_at": now}
}

type listNotificationsParams struct {
	Audience   audience
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
}

type notificationMarkResult struct {
	Updated bool
	Found   bool
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *gormRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	query := r.visible(ctx, params.Audience)
	if params.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Notification
	err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	size := pagination.NormalizeLimit(params.Limit)
	if len(rows) <= size {
		return rows, nil, nil
	}
	rows = rows[:size]
	last := rows[size-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

func (r *gormRepository) MarkRead(ctx context.Context, audience audience, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	res := r.visible(ctx, audience).
		Where("id = ? AND is_read = ?", notificationID, false).
		UpdateColumns(markedRead(now))
	if res.Error != nil {
		return notificationMarkResult{}, res.Error
	}
	if res.RowsAffected > 0 {
		return notificationMarkResult{Updated: true, Found: true}, nil
	}

	// nothing flipped: either already read or not visible to this audience
	var count int64
	if err := r.visible(ctx, audience).Where("id = ?", notificationID).Count(&count).Error; err != nil {
		return notificationMarkResult{}, err
	}
	return notificationMarkResult{Found: count > 0}, nil
}

func (r *gormRepository) MarkAllRead(ctx context.Context, audience audience, now time.Time) (int64, error) {
	res := r.visible(ctx, audience).Where("is_read = ?", false).UpdateColumns(markedRead(now))
	return res.RowsAffected, res.Error
}

// DeleteReadBefore removes read notifications created before cutoff.
func (r *gormRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
