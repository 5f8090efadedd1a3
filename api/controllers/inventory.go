package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenline-backend/api/responses"
	"github.com/angelmondragon/kitchenline-backend/api/validators"
	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

type createInventoryRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Stock          decimal.Decimal `json:"stock"`
	Unit           string          `json:"unit" validate:"required,max=20"`
	ExpirationDate *string         `json:"expirationDate"`
}

type updateInventoryRequest struct {
	Name           *string          `json:"name" validate:"omitempty,max=120"`
	Stock          *decimal.Decimal `json:"stock"`
	Unit           *string          `json:"unit" validate:"omitempty,max=20"`
	ExpirationDate *string          `json:"expirationDate"`
	ClearExpiry    bool             `json:"clearExpiry"`
}

func CreateInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expiry, err := parseExpiry(req.ExpirationDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), inventory.CreateInput{
			Name:           req.Name,
			Stock:          req.Stock,
			Unit:           req.Unit,
			ExpirationDate: expiry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inventory.ItemToDTO(item))
	}
}

func ListInventoryItems(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := stockStatusQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.List(r.Context(), inventory.ListFilters{
			Status: status,
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.ItemsToDTO(items))
	}
}

func GetInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.ItemToDTO(item))
	}
}

func UpdateInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expiry, err := parseExpiry(req.ExpirationDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, inventory.UpdateInput{
			Name:           req.Name,
			Stock:          req.Stock,
			Unit:           req.Unit,
			ExpirationDate: expiry,
			ClearExpiry:    req.ClearExpiry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.ItemToDTO(item))
	}
}

func DeleteInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// parseExpiry accepts RFC 3339 timestamps or plain dates (UTC midnight).
func parseExpiry(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expirationDate must be a date (YYYY-MM-DD) or RFC 3339 timestamp").
			WithDetails(map[string]any{"field": "expirationDate"})
	}
	return &t, nil
}
