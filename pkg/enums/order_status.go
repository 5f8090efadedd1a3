package enums

import "slices"

// OrderStatus tracks an order from placement to delivery.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusApproved        OrderStatus = "approved"
	OrderStatusPreparing       OrderStatus = "preparing"
	OrderStatusWaitingForRider OrderStatus = "waiting_for_rider"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// orderLifecycle is ordered by position; cancelled sits outside the forward
// sequence.
var orderLifecycle = []OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusPreparing,
	OrderStatusWaitingForRider,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string { return string(s) }

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	return s.Position() >= 0
}

// IsTerminal reports whether no further status writes are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Position returns the index of the status in the lifecycle, or -1.
func (s OrderStatus) Position() int {
	return slices.Index(orderLifecycle, s)
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parse(orderLifecycle, value, "order status")
}
