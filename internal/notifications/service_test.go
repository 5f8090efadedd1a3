package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	paginationpkg "github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepository struct {
	created       []*models.Notification
	createErr     error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, audience audience, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, audience audience, now time.Time) (int64, error)
	deleteFn      func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, audience audience, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, audience, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, audience audience, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, audience, now)
	}
	return 0, nil
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, cutoff)
	}
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_NotifyUser(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(repo)
	userID := uuid.New()
	orderID := uuid.New()

	n, err := svc.NotifyUser(context.Background(), userID, Message{
		Type:    enums.NotificationTypeOrderStatus,
		Title:   " Order update ",
		Message: "Your order is out for delivery",
		OrderID: &orderID,
	})
	if err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}
	if n.UserID == nil || *n.UserID != userID || n.Role != nil {
		t.Fatalf("expected user-targeted notification, got %+v", n)
	}
	if n.Title != "Order update" {
		t.Fatalf("expected trimmed title, got %q", n.Title)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(repo.created))
	}
}

func TestService_NotifyRole(t *testing.T) {
	repo := &fakeRepository{}
	svc := newServiceWithRepo(repo)

	n, err := svc.NotifyRole(context.Background(), enums.UserRoleAdmin, Message{
		Type:    enums.NotificationTypeOrderPlaced,
		Title:   "New order",
		Message: "A new order is waiting for approval",
	})
	if err != nil {
		t.Fatalf("unexpected notify error: %v", err)
	}
	if n.Role == nil || *n.Role != enums.UserRoleAdmin || n.UserID != nil {
		t.Fatalf("expected role-targeted notification, got %+v", n)
	}
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	userID := uuid.New()
	role := enums.UserRoleAdmin
	msg := Message{Type: enums.NotificationTypeSystem, Title: "t", Message: "m"}

	cases := map[string]CreateInput{
		"no target":    {Message: msg},
		"both targets": {UserID: &userID, Role: &role, Message: msg},
		"bad type":     {UserID: &userID, Message: Message{Type: "gossip", Title: "t", Message: "m"}},
		"empty title":  {UserID: &userID, Message: Message{Type: enums.NotificationTypeSystem, Message: "m"}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code := pkgerrors.CodeOf(err); code != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %s", code)
			}
		})
	}
}

func TestService_ListNotifications(t *testing.T) {
	first := models.Notification{ID: uuid.New(), CreatedAt: time.Now()}
	viewer := Viewer{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if params.Limit != 1 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if params.Audience.UserID != viewer.UserID || params.Audience.Role != enums.UserRoleAdmin {
				t.Fatalf("unexpected audience %+v", params.Audience)
			}
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: first.CreatedAt, ID: first.ID}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), ListParams{Viewer: viewer, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("invalid cursor %q: %v", result.Cursor, err)
	}
	if decoded.ID != first.ID {
		t.Fatalf("expected cursor id %s got %s", first.ID, decoded.ID)
	}
}

func TestService_ListNotificationsInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{Viewer: Viewer{UserID: uuid.New()}, Cursor: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid cursor")
	}
	errCode := pkgerrors.CodeOf(err)
	if errCode != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", errCode)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, audience audience, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), Viewer{UserID: uuid.New()}, uuid.New()); err == nil {
		t.Fatal("expected not found error")
	} else if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_MarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, audience audience, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	_, err := svc.MarkAllRead(context.Background(), Viewer{UserID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.CodeOf(err); code != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %s", code)
	}
}

func TestService_DeleteReadBefore(t *testing.T) {
	cutoff := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, got time.Time) (int64, error) {
			if !got.Equal(cutoff) {
				t.Fatalf("unexpected cutoff %s", got)
			}
			return 7, nil
		},
	}
	svc := newServiceWithRepo(repo)
	count, err := svc.DeleteReadBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7 deleted rows, got %d", count)
	}
	if _, err := svc.DeleteReadBefore(context.Background(), time.Time{}); err == nil {
		t.Fatal("expected zero cutoff to be rejected")
	}
}
