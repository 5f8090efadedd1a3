package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenline-backend/api/responses"
	"github.com/angelmondragon/kitchenline-backend/api/validators"
	"github.com/angelmondragon/kitchenline-backend/internal/ingredients"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
)

type createIngredientRequest struct {
	Name   string             `json:"name" validate:"required,max=120"`
	Stock  decimal.Decimal    `json:"stock"`
	Unit   string             `json:"unit" validate:"required,max=20"`
	Recipe []types.RecipeLine `json:"recipe" validate:"dive"`
}

type updateIngredientRequest struct {
	Name   *string             `json:"name" validate:"omitempty,max=120"`
	Unit   *string             `json:"unit" validate:"omitempty,max=20"`
	Recipe *[]types.RecipeLine `json:"recipe"`
}

type addStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateIngredient inserts a new ingredient or restocks the one with the same
// name, consuming raw materials per its recipe.
func CreateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIngredientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Create(r.Context(), ingredients.CreateInput{
			Name:   req.Name,
			Stock:  req.Stock,
			Unit:   req.Unit,
			Recipe: req.Recipe,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, ingredients.StockResultToDTO(res))
	}
}

func AddIngredientStock(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req addStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.AddStock(r.Context(), id, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredients.StockResultToDTO(res))
	}
}

func ListIngredients(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := stockStatusQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), ingredients.ListFilters{
			Status: status,
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredients.ListToDTO(rows))
	}
}

func GetIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredients.ToDTO(ing))
	}
}

func UpdateIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ing, err := svc.Update(r.Context(), id, ingredients.UpdateInput{
			Name:   req.Name,
			Unit:   req.Unit,
			Recipe: req.Recipe,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredients.ToDTO(ing))
	}
}

func DeleteIngredient(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
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

func stockStatusQuery(r *http.Request) (*enums.StockStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseStockStatus(strings.ToLower(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").WithDetails(map[string]any{"field": "status"})
	}
	return &status, nil
}
