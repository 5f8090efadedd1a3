package middleware

import (
	"context"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	requestIDKey
)

type identity struct {
	userID uuid.UUID
	role   enums.UserRole
}

// WithIdentity stores the authenticated caller on ctx.
func WithIdentity(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity{userID: userID, role: role})
}

// IdentityFromContext reports the caller set by Auth.
func IdentityFromContext(ctx context.Context) (uuid.UUID, enums.UserRole, bool) {
	if ctx == nil {
		return uuid.Nil, "", false
	}
	id, ok := ctx.Value(identityKey).(identity)
	if !ok || id.userID == uuid.Nil || !id.role.IsValid() {
		return uuid.Nil, "", false
	}
	return id.userID, id.role, true
}

func UserIDFromContext(ctx context.Context) string {
	userID, _, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return userID.String()
}

func RoleFromContext(ctx context.Context) string {
	_, role, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return string(role)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
