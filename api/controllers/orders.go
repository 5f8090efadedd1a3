package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenline-backend/api/responses"
	"github.com/angelmondragon/kitchenline-backend/api/validators"
	"github.com/angelmondragon/kitchenline-backend/internal/orders"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
)

type placeOrderRequest struct {
	UserID               *uuid.UUID         `json:"userId"`
	Items                []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Address              *types.Address     `json:"address" validate:"required"`
	PaymentMethod        string             `json:"paymentMethod" validate:"required"`
	ReferenceNumber      *string            `json:"referenceNumber"`
	ProofImage           *string            `json:"proofImage"`
	DeliveryInstructions *string            `json:"deliveryInstructions"`
	Total                decimal.Decimal    `json:"total"`
	IsWalkIn             bool               `json:"isWalkIn"`
}

type orderItemRequest struct {
	ProductID uuid.UUID             `json:"productId"`
	Name      string                `json:"name" validate:"required"`
	Image     *string               `json:"image"`
	Size      *string               `json:"size"`
	Addons    []types.AddonSnapshot `json:"addons" validate:"dive"`
	Quantity  int                   `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal       `json:"unitPrice"`
}

type orderStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type assignRiderRequest struct {
	RiderID uuid.UUID `json:"riderId"`
}

type deliveryProofRequest struct {
	DeliveryProofImage string `json:"deliveryProofImage" validate:"required"`
}

// PlaceOrder creates a pending order for the caller. Admins may place an
// order on behalf of another user by sending userId.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := orderActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.PlaceOrderInput{
			UserID:               actor.UserID,
			Address:              *req.Address,
			PaymentMethod:        enums.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
			ReferenceNumber:      req.ReferenceNumber,
			ProofImage:           req.ProofImage,
			DeliveryInstructions: req.DeliveryInstructions,
			Total:                req.Total,
			IsWalkIn:             req.IsWalkIn,
		}
		if req.UserID != nil {
			input.UserID = *req.UserID
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.OrderItemInput{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Size:      item.Size,
				Addons:    item.Addons,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		order, err := svc.PlaceOrder(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders lists every order for admins and the assigned orders for riders.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := orderActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters orders.ListFilters
		if filters.Status, err = statusQuery(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.RiderID, err = validators.ParseQueryUUID(r, "riderId"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.UserID, err = validators.ParseQueryUUID(r, "userId"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), actor, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListUserOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := orderActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := statusQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUserOrders(r.Context(), actor, userID, params, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, orderID, err := orderTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus moves an order along its lifecycle. Reaching
// out_for_delivery deducts the raw materials the order consumes.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, orderID, err := orderTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.TransitionInput{
			Status: enums.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
			Reason: req.Reason,
		}
		order, err := svc.TransitionStatus(r.Context(), actor, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, orderID, err := orderTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CancelOrder(r.Context(), actor, orderID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AssignRider(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, orderID, err := orderTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req assignRiderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.RiderID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "riderId is required"))
			return
		}
		order, err := svc.AssignRider(r.Context(), actor, orderID, req.RiderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func SubmitDeliveryProof(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, orderID, err := orderTarget(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req deliveryProofRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.SubmitDeliveryProof(r.Context(), actor, orderID, req.DeliveryProofImage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func orderTarget(r *http.Request) (orders.Actor, uuid.UUID, error) {
	actor, err := orderActor(r)
	if err != nil {
		return orders.Actor{}, uuid.Nil, err
	}
	orderID, err := validators.ParseUUIDParam(r, "orderId")
	if err != nil {
		return orders.Actor{}, uuid.Nil, err
	}
	return actor, orderID, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func statusQuery(r *http.Request) (*enums.OrderStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(strings.ToLower(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").WithDetails(map[string]any{"field": "status"})
	}
	return &status, nil
}
