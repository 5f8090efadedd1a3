package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
	"github.com/angelmondragon/kitchenline-backend/pkg/metrics"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service runs the order lifecycle.
type Service interface {
	PlaceOrder(ctx context.Context, actor Actor, input PlaceOrderInput) (*OrderDTO, error)
	TransitionStatus(ctx context.Context, actor Actor, orderID uuid.UUID, input TransitionInput) (*OrderDTO, error)
	CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) (*OrderDTO, error)
	AssignRider(ctx context.Context, actor Actor, orderID, riderID uuid.UUID) (*OrderDTO, error)
	SubmitDeliveryProof(ctx context.Context, actor Actor, orderID uuid.UUID, image string) (*OrderDTO, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListUserOrders(ctx context.Context, actor Actor, userID uuid.UUID, params pagination.Params, status *enums.OrderStatus) (*OrderListDTO, error)
	ListOrders(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderListDTO, error)
}

// Options carries the tunables and optional collaborators of the service.
type Options struct {
	DeliveryFee decimal.Decimal
	Metrics     *metrics.OrderMetrics
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	tx          txRunner
	products    productLoader
	users       userLoader
	inventory   InventoryDeducter
	notifier    Notifier
	deliveryFee decimal.Decimal
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
	clock       func() time.Time
}

// NewService builds the order workflow service.
func NewService(
	repo Repository,
	tx txRunner,
	products productLoader,
	users userLoader,
	deducter InventoryDeducter,
	notifier Notifier,
	opts Options,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if deducter == nil {
		return nil, fmt.Errorf("inventory deducter required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if opts.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee must not be negative")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		products:    products,
		users:       users,
		inventory:   deducter,
		notifier:    notifier,
		deliveryFee: opts.DeliveryFee,
		metrics:     opts.Metrics,
		logg:        opts.Logger,
		clock:       time.Now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, actor Actor, input PlaceOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !actor.isAdmin() && input.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "orders can only be placed for yourself")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	items := make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		if err := validateItem(i, item); err != nil {
			return nil, err
		}
		addons := item.Addons
		if addons == nil {
			addons = []types.AddonSnapshot{}
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Image:     trimmedPtr(item.Image),
			Size:      trimmedPtr(item.Size),
			Addons:    addons,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if err := input.Address.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paymentMethod must be one of gcash, cod")
	}

	reference := trimmedPtr(input.ReferenceNumber)
	proof := trimmedPtr(input.ProofImage)
	if input.PaymentMethod.RequiresProof() {
		if proof == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "proofImage is required for gcash payments")
		}
		if reference == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "referenceNumber is required for gcash payments")
		}
	} else {
		reference, proof = nil, nil
	}

	fee := s.deliveryFee
	if input.IsWalkIn {
		fee = decimal.Zero
	}
	if !input.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must be greater than zero")
	}
	if input.Total.LessThan(fee) {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "total must include the %s delivery fee", fee.StringFixed(2))
	}

	order := &models.Order{
		UserID:               input.UserID,
		Address:              input.Address,
		PaymentMethod:        input.PaymentMethod,
		ReferenceNumber:      reference,
		ProofImage:           proof,
		DeliveryInstructions: trimmedPtr(input.DeliveryInstructions),
		Status:               enums.OrderStatusPending,
		IsReviewed:           false,
		IsWalkIn:             input.IsWalkIn,
		DeliveryFee:          fee,
		Total:                input.Total,
		Items:                items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	s.metrics.IncPlaced(order.PaymentMethod.String())
	s.notifyRole(ctx, enums.UserRoleAdmin, notifications.Message{
		Type:    enums.NotificationTypeOrderPlaced,
		Title:   "New order received",
		Message: fmt.Sprintf("Order %s was placed (%s, total %s).", shortID(order.ID), order.PaymentMethod, order.Total.StringFixed(2)),
		OrderID: &order.ID,
	})
	return mapOrderToDTO(order), nil
}

func (s *service) TransitionStatus(ctx context.Context, actor Actor, orderID uuid.UUID, input TransitionInput) (*OrderDTO, error) {
	target := input.Status
	if !target.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", target)
	}
	if !actor.isAdmin() && !actor.isRider() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can change order status")
	}

	var (
		updated *models.Order
		from    enums.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if actor.isRider() {
			if !assignedTo(order, actor.UserID) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to you")
			}
			if target != enums.OrderStatusOutForDelivery && target != enums.OrderStatusCompleted {
				return pkgerrors.New(pkgerrors.CodeForbidden, "riders may only mark orders out for delivery or completed")
			}
		}
		if err := checkTransition(order.Status, target); err != nil {
			return err
		}

		now := s.clock().UTC()
		updates := map[string]any{}
		switch target {
		case enums.OrderStatusCompleted:
			updates["completed_at"] = now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
			if reason := trimmedPtr(input.Reason); reason != nil {
				updates["cancellation_reason"] = *reason
			}
		}
		deduct := requiresDeduction(order, target)
		if deduct {
			updates["inventory_deducted_at"] = now
		}

		ok, err := repo.CompareAndSetStatus(ctx, order.ID, order.Status, target, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		if !ok {
			return concurrentChange()
		}
		if deduct {
			if err := s.deduct(ctx, tx, order); err != nil {
				return err
			}
		}

		from = order.Status
		updated, err = loadOrder(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(from.String(), target.String())
	s.notifyUser(ctx, updated.UserID, notifications.Message{
		Type:    enums.NotificationTypeOrderStatus,
		Title:   "Order update",
		Message: statusMessage(updated),
		OrderID: &updated.ID,
	})
	return mapOrderToDTO(updated), nil
}

func (s *service) CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "you can only cancel your own orders")
		}
		if order.Status != enums.OrderStatusPending {
			return businessRule(fmt.Sprintf("only pending orders can be cancelled; order is %s", order.Status), order)
		}
		if order.PaymentMethod != enums.PaymentMethodCOD {
			return businessRule("only cash-on-delivery orders can be cancelled", order)
		}

		ok, err := repo.CompareAndSetStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled, map[string]any{
			"cancellation_reason": reason,
			"cancelled_at":        s.clock().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if !ok {
			return concurrentChange()
		}
		updated, err = loadOrder(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(enums.OrderStatusPending.String(), enums.OrderStatusCancelled.String())
	s.notifyRole(ctx, enums.UserRoleAdmin, notifications.Message{
		Type:    enums.NotificationTypeOrderStatus,
		Title:   "Order cancelled",
		Message: fmt.Sprintf("Order %s was cancelled by the customer: %s", shortID(updated.ID), reason),
		OrderID: &updated.ID,
	})
	return mapOrderToDTO(updated), nil
}

func (s *service) AssignRider(ctx context.Context, actor Actor, orderID, riderID uuid.UUID) (*OrderDTO, error) {
	if !actor.isAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can assign riders")
	}
	if riderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "riderId is required")
	}
	rider, err := s.users.FindByID(ctx, riderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rider")
	}
	if rider.Role != enums.UserRoleRider {
		return nil, pkgerrors.Newf(pkgerrors.CodeBusinessRule, "user %s is not a rider", rider.Name)
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPreparing && order.Status != enums.OrderStatusWaitingForRider {
			return businessRule(fmt.Sprintf("riders can only be assigned while an order is preparing or waiting for a rider; order is %s", order.Status), order)
		}
		ok, err := repo.CompareAndSetStatus(ctx, order.ID, order.Status, order.Status, map[string]any{"rider_id": rider.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign rider")
		}
		if !ok {
			return concurrentChange()
		}
		updated, err = loadOrder(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyUser(ctx, rider.ID, notifications.Message{
		Type:    enums.NotificationTypeOrderAssigned,
		Title:   "New delivery assigned",
		Message: fmt.Sprintf("Order %s has been assigned to you.", shortID(updated.ID)),
		OrderID: &updated.ID,
	})
	return mapOrderToDTO(updated), nil
}

func (s *service) SubmitDeliveryProof(ctx context.Context, actor Actor, orderID uuid.UUID, image string) (*OrderDTO, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deliveryProofImage is required")
	}
	if !actor.isRider() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned rider can submit delivery proof")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !assignedTo(order, actor.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to you")
		}
		if order.Status != enums.OrderStatusOutForDelivery {
			return businessRule(fmt.Sprintf("delivery proof can only be submitted for orders out for delivery; order is %s", order.Status), order)
		}
		ok, err := repo.CompareAndSetStatus(ctx, order.ID, enums.OrderStatusOutForDelivery, enums.OrderStatusCompleted, map[string]any{
			"delivery_proof_image": image,
			"completed_at":         s.clock().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record delivery proof")
		}
		if !ok {
			return concurrentChange()
		}
		updated, err = loadOrder(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(enums.OrderStatusOutForDelivery.String(), enums.OrderStatusCompleted.String())
	s.notifyUser(ctx, updated.UserID, notifications.Message{
		Type:    enums.NotificationTypeOrderStatus,
		Title:   "Order delivered",
		Message: statusMessage(updated),
		OrderID: &updated.ID,
	})
	return mapOrderToDTO(updated), nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.isAdmin() && order.UserID != actor.UserID && !assignedTo(order, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you cannot view this order")
	}
	return mapOrderToDTO(order), nil
}

func (s *service) ListUserOrders(ctx context.Context, actor Actor, userID uuid.UUID, params pagination.Params, status *enums.OrderStatus) (*OrderListDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !actor.isAdmin() && userID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only list your own orders")
	}
	return s.list(ctx, params, ListFilters{UserID: &userID, Status: status})
}

func (s *service) ListOrders(ctx context.Context, actor Actor, params pagination.Params, filters ListFilters) (*OrderListDTO, error) {
	switch {
	case actor.isAdmin():
	case actor.isRider():
		filters.RiderID = &actor.UserID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only staff can list all orders")
	}
	return s.list(ctx, params, filters)
}

func (s *service) list(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderListDTO, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return mapOrderList(list), nil
}

// deduct converts the order lines into raw material requirements and takes
// them out of inventory inside tx.
func (s *service) deduct(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	reqs, err := s.requirementsFor(ctx, order)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		s.metrics.IncDeduction("empty")
		return nil
	}
	if _, err := s.inventory.DeductByName(ctx, tx, reqs); err != nil {
		s.metrics.IncDeduction(deductionOutcome(err))
		return err
	}
	s.metrics.IncDeduction("ok")
	return nil
}

func (s *service) requirementsFor(ctx context.Context, order *models.Order) ([]inventory.Requirement, error) {
	ids := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order products")
	}

	var reqs []inventory.Requirement
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeBusinessRule, "product %q on this order no longer exists", item.Name).
				WithDetails(map[string]any{"productId": item.ProductID.String()})
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		for _, ing := range product.Ingredients {
			reqs = append(reqs, inventory.Requirement{
				Name:     ing.Name,
				Quantity: ing.Quantity.Mul(qty),
			})
		}
	}
	return reqs, nil
}

func (s *service) notifyUser(ctx context.Context, userID uuid.UUID, msg notifications.Message) {
	if _, err := s.notifier.NotifyUser(ctx, userID, msg); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "order notification failed", err)
	}
}

func (s *service) notifyRole(ctx context.Context, role enums.UserRole, msg notifications.Message) {
	if _, err := s.notifier.NotifyRole(ctx, role, msg); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "role", role.String()), "order notification failed", err)
	}
}

// checkTransition enforces forward-only movement. Cancellation is allowed
// from any non-terminal status; completion only from out_for_delivery.
func checkTransition(from, to enums.OrderStatus) error {
	if from.IsTerminal() {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "order is already %s and can no longer change status", from).
			WithDetails(map[string]any{"status": from.String()})
	}
	if from == to {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "order is already %s", from).
			WithDetails(map[string]any{"status": from.String()})
	}
	if to == enums.OrderStatusCancelled {
		return nil
	}
	if to == enums.OrderStatusCompleted && from != enums.OrderStatusOutForDelivery {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "order must be out for delivery before it is completed; order is %s", from).
			WithDetails(map[string]any{"status": from.String(), "requested": to.String()})
	}
	if to.Position() < from.Position() {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "order cannot move back from %s to %s", from, to).
			WithDetails(map[string]any{"status": from.String(), "requested": to.String()})
	}
	return nil
}

// requiresDeduction reports whether moving to target must consume stock:
// only the first time an order enters out_for_delivery.
func requiresDeduction(order *models.Order, target enums.OrderStatus) bool {
	return order.InventoryDeductedAt == nil && target == enums.OrderStatusOutForDelivery
}

func loadOrder(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func assignedTo(order *models.Order, userID uuid.UUID) bool {
	return order.RiderID != nil && *order.RiderID == userID
}

func businessRule(msg string, order *models.Order) error {
	return pkgerrors.New(pkgerrors.CodeBusinessRule, msg).
		WithDetails(map[string]any{"status": order.Status.String()})
}

func concurrentChange() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently; reload and retry")
}

func deductionOutcome(err error) string {
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, inventory.ErrMissingInventory):
		return "missing"
	case errors.Is(err, inventory.ErrExpiredStock):
		return "expired"
	default:
		return "error"
	}
}

func validateItem(i int, item OrderItemInput) error {
	switch {
	case item.ProductID == uuid.Nil:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].productId is required", i)
	case strings.TrimSpace(item.Name) == "":
		return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].name is required", i)
	case item.Quantity < 1:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].quantity must be at least 1", i)
	case item.UnitPrice.IsNegative():
		return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].unitPrice must not be negative", i)
	}
	for j, addon := range item.Addons {
		if strings.TrimSpace(addon.Name) == "" {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].addons[%d].name is required", i, j)
		}
		if addon.Price.IsNegative() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "items[%d].addons[%d].price must not be negative", i, j)
		}
	}
	return nil
}

func statusMessage(order *models.Order) string {
	id := shortID(order.ID)
	switch order.Status {
	case enums.OrderStatusApproved:
		return fmt.Sprintf("Order %s has been approved.", id)
	case enums.OrderStatusPreparing:
		return fmt.Sprintf("Order %s is being prepared.", id)
	case enums.OrderStatusWaitingForRider:
		return fmt.Sprintf("Order %s is ready and waiting for a rider.", id)
	case enums.OrderStatusOutForDelivery:
		return fmt.Sprintf("Order %s is out for delivery.", id)
	case enums.OrderStatusCompleted:
		return fmt.Sprintf("Order %s has been completed.", id)
	case enums.OrderStatusCancelled:
		if order.CancellationReason != nil {
			return fmt.Sprintf("Order %s was cancelled: %s", id, *order.CancellationReason)
		}
		return fmt.Sprintf("Order %s was cancelled.", id)
	default:
		return fmt.Sprintf("Order %s is now %s.", id, order.Status)
	}
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
