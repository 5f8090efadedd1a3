package controllers

import (
	"net/http"

	"github.com/angelmondragon/kitchenline-backend/api/middleware"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
)

func orderActor(r *http.Request) (orders.Actor, error) {
	userID, role, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return orders.Actor{UserID: userID, Role: role}, nil
}

func notificationViewer(r *http.Request) (notifications.Viewer, error) {
	userID, role, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return notifications.Viewer{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return notifications.Viewer{UserID: userID, Role: role}, nil
}
