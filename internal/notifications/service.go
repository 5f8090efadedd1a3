package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Notifier is the emit side used by the order workflow and scheduled jobs.
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, msg Message) (*models.Notification, error)
	NotifyRole(ctx context.Context, role enums.UserRole, msg Message) (*models.Notification, error)
}

// Service defines notification emit, list and read operations.
type Service interface {
	Notifier
	Create(ctx context.Context, input CreateInput) (*models.Notification, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, viewer Viewer, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, viewer Viewer) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo  Repository
	clock func() time.Time
}

// Message is the content of a notification.
type Message struct {
	Type    enums.NotificationType
	Title   string
	Message string
	OrderID *uuid.UUID
}

// CreateInput addresses a message to exactly one of a user or a role.
type CreateInput struct {
	UserID *uuid.UUID
	Role   *enums.UserRole
	Message
}

// Viewer identifies who is reading notifications.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ListParams configures pagination for notifications.
type ListParams struct {
	Viewer     Viewer
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, clock: time.Now}, nil
}

func (s *service) NotifyUser(ctx context.Context, userID uuid.UUID, msg Message) (*models.Notification, error) {
	return s.Create(ctx, CreateInput{UserID: &userID, Message: msg})
}

func (s *service) NotifyRole(ctx context.Context, role enums.UserRole, msg Message) (*models.Notification, error) {
	return s.Create(ctx, CreateInput{Role: &role, Message: msg})
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Notification, error) {
	if (input.UserID == nil) == (input.Role == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification needs exactly one of user or role")
	}
	if input.UserID != nil && *input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message.Message)
	if title == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}

	notification := &models.Notification{
		UserID:  input.UserID,
		Role:    input.Role,
		Type:    input.Type,
		Title:   title,
		Message: message,
		OrderID: input.OrderID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create notification")
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		Audience:   audience(params.Viewer),
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = next.String()
	}
	if rows == nil {
		rows = []models.Notification{}
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, viewer Viewer, notificationID uuid.UUID) error {
	if viewer.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, audience(viewer), notificationID, s.clock().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, viewer Viewer) (int64, error) {
	if viewer.UserID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, audience(viewer), s.clock().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cutoff required")
	}
	count, err := s.repo.DeleteReadBefore(ctx, cutoff.UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete read notifications")
	}
	return count, nil
}
