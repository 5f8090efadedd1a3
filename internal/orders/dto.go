package orders

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) isAdmin() bool { return a.Role == enums.UserRoleAdmin }
func (a Actor) isRider() bool { return a.Role == enums.UserRoleRider }

// PlaceOrderInput carries a new order as submitted by the client.
type PlaceOrderInput struct {
	UserID               uuid.UUID
	Items                []OrderItemInput
	Address              types.Address
	PaymentMethod        enums.PaymentMethod
	ReferenceNumber      *string
	ProofImage           *string
	DeliveryInstructions *string
	Total                decimal.Decimal
	IsWalkIn             bool
}

// OrderItemInput is one submitted order line.
type OrderItemInput struct {
	ProductID uuid.UUID
	Name      string
	Image     *string
	Size      *string
	Addons    []types.AddonSnapshot
	Quantity  int
	UnitPrice decimal.Decimal
}

// TransitionInput requests a status change. Reason is recorded when the
// target is cancelled.
type TransitionInput struct {
	Status enums.OrderStatus
	Reason *string
}

// OrderDTO is the public representation of an order.
type OrderDTO struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"userId"`
	Items                []OrderItemDTO      `json:"items"`
	Address              types.Address       `json:"address"`
	PaymentMethod        enums.PaymentMethod `json:"paymentMethod"`
	ReferenceNumber      *string             `json:"referenceNumber,omitempty"`
	ProofImage           *string             `json:"proofImage,omitempty"`
	DeliveryInstructions *string             `json:"deliveryInstructions,omitempty"`
	Status               enums.OrderStatus   `json:"status"`
	IsReviewed           bool                `json:"isReviewed"`
	IsWalkIn             bool                `json:"isWalkIn"`
	CancellationReason   *string             `json:"cancellationReason,omitempty"`
	RiderID              *uuid.UUID          `json:"riderId,omitempty"`
	DeliveryProofImage   *string             `json:"deliveryProofImage,omitempty"`
	DeliveryFee          decimal.Decimal     `json:"deliveryFee"`
	Total                decimal.Decimal     `json:"total"`
	InventoryDeductedAt  *time.Time          `json:"inventoryDeductedAt,omitempty"`
	CompletedAt          *time.Time          `json:"completedAt,omitempty"`
	CancelledAt          *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// OrderItemDTO is one line of an order.
type OrderItemDTO struct {
	ID        uuid.UUID             `json:"id"`
	ProductID uuid.UUID             `json:"productId"`
	Name      string                `json:"name"`
	Image     *string               `json:"image,omitempty"`
	Size      *string               `json:"size,omitempty"`
	Addons    []types.AddonSnapshot `json:"addons"`
	Quantity  int                   `json:"quantity"`
	UnitPrice decimal.Decimal       `json:"unitPrice"`
}

// OrderListDTO is one page of orders.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

func mapOrderToDTO(o *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		addons := item.Addons
		if addons == nil {
			addons = []types.AddonSnapshot{}
		}
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Addons:    addons,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &OrderDTO{
		ID:                   o.ID,
		UserID:               o.UserID,
		Items:                items,
		Address:              o.Address,
		PaymentMethod:        o.PaymentMethod,
		ReferenceNumber:      o.ReferenceNumber,
		ProofImage:           o.ProofImage,
		DeliveryInstructions: o.DeliveryInstructions,
		Status:               o.Status,
		IsReviewed:           o.IsReviewed,
		IsWalkIn:             o.IsWalkIn,
		CancellationReason:   o.CancellationReason,
		RiderID:              o.RiderID,
		DeliveryProofImage:   o.DeliveryProofImage,
		DeliveryFee:          o.DeliveryFee,
		Total:                o.Total,
		InventoryDeductedAt:  o.InventoryDeductedAt,
		CompletedAt:          o.CompletedAt,
		CancelledAt:          o.CancelledAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func mapOrderList(list *OrderList) *OrderListDTO {
	out := &OrderListDTO{Orders: make([]OrderDTO, 0, len(list.Orders)), NextCursor: list.NextCursor}
	for i := range list.Orders {
		out.Orders = append(out.Orders, *mapOrderToDTO(&list.Orders[i]))
	}
	return out
}
