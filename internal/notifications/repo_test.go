package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  role TEXT,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  order_id TEXT,
  is_read BOOLEAN NOT NULL DEFAULT 0,
  read_at DATETIME,
  created_at DATETIME,
  CHECK ((user_id IS NULL) <> (role IS NULL))
);`).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID *uuid.UUID, role *enums.UserRole, createdAt time.Time, read bool) models.Notification {
	t.Helper()
	n := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Type:      enums.NotificationTypeSystem,
		Title:     "title",
		Message:   "message",
		IsRead:    read,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&n).Error)
	return n
}

func TestRepositoryAudienceAndPaging(t *testing.T) {
	db := setupNotificationsDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	admin := uuid.New()
	someoneElse := uuid.New()
	adminRole := enums.UserRoleAdmin
	riderRole := enums.UserRoleRider
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	own := seedNotification(t, db, &admin, nil, base.Add(3*time.Minute), false)
	broadcast := seedNotification(t, db, nil, &adminRole, base.Add(2*time.Minute), false)
	older := seedNotification(t, db, &admin, nil, base.Add(1*time.Minute), true)
	seedNotification(t, db, &someoneElse, nil, base, false)
	seedNotification(t, db, nil, &riderRole, base, false)

	view := audience{UserID: admin, Role: enums.UserRoleAdmin}
	page, next, err := repo.List(ctx, listNotificationsParams{Audience: view, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, own.ID, page[0].ID)
	assert.Equal(t, broadcast.ID, page[1].ID)
	require.NotNil(t, next)

	rest, next, err := repo.List(ctx, listNotificationsParams{Audience: view, Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, older.ID, rest[0].ID)
	assert.Nil(t, next)

	unread, _, err := repo.List(ctx, listNotificationsParams{Audience: view, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestRepositoryMarkReadAndCleanup(t *testing.T) {
	db := setupNotificationsDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := uuid.New()
	stranger := uuid.New()
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	mine := seedNotification(t, db, &user, nil, now.Add(-40*24*time.Hour), false)
	theirs := seedNotification(t, db, &stranger, nil, now.Add(-40*24*time.Hour), false)

	res, err := repo.MarkRead(ctx, audience{UserID: user}, theirs.ID, now)
	require.NoError(t, err)
	assert.False(t, res.Found)

	res, err = repo.MarkRead(ctx, audience{UserID: user}, mine.ID, now)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.Updated)

	res, err = repo.MarkRead(ctx, audience{UserID: user}, mine.ID, now)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.False(t, res.Updated)

	count, err := repo.MarkAllRead(ctx, audience{UserID: stranger}, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	deleted, err := repo.DeleteReadBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}
