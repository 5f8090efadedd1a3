package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientStock marks a deduction rejected for lack of stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrMissingInventory marks a requirement with no matching raw material.
	ErrMissingInventory = errors.New("inventory item missing")
	// ErrExpiredStock marks a requirement that resolved to an expired raw material.
	ErrExpiredStock = errors.New("inventory item expired")
)

// Requirement is an amount of one raw material to take out of stock. Name is
// used by DeductByName, RawMaterialID by DeductByID.
type Requirement struct {
	RawMaterialID uuid.UUID
	Name          string
	Quantity      decimal.Decimal
}

// Deduction describes a committed stock decrement.
type Deduction struct {
	ItemID   uuid.UUID         `json:"itemId"`
	Name     string            `json:"name"`
	Quantity decimal.Decimal   `json:"quantity"`
	Before   decimal.Decimal   `json:"before"`
	After    decimal.Decimal   `json:"after"`
	Status   enums.StockStatus `json:"status"`
}

// Ledger removes raw materials from stock. Every requirement is verified
// before any row is written, and each write is a guarded decrement, so callers
// running inside a transaction get all-or-nothing behaviour.
type Ledger struct {
	repo   Repository
	policy stock.Policy
	clock  func() time.Time
}

// NewLedger builds a ledger over the inventory repository.
func NewLedger(repo Repository, policy stock.Policy) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &Ledger{repo: repo, policy: policy, clock: time.Now}, nil
}

type resolvedRequirement struct {
	item *models.InventoryItem
	qty  decimal.Decimal
}

// DeductByName resolves requirements by case-insensitive name and applies the
// order-path status threshold. Requirements naming the same material are
// summed first.
func (l *Ledger) DeductByName(ctx context.Context, tx *gorm.DB, reqs []Requirement) ([]Deduction, error) {
	order, totals, labels := aggregate(reqs, func(r Requirement) string { return stock.NormalizeName(r.Name) })
	if len(order) == 0 {
		return nil, nil
	}

	repo := l.repo.WithTx(tx)
	items, err := repo.FindByNameKeys(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory items")
	}
	byKey := make(map[string]*models.InventoryItem, len(items))
	for i := range items {
		byKey[items[i].NameKey] = &items[i]
	}

	resolved := make([]resolvedRequirement, 0, len(order))
	for _, key := range order {
		item, ok := byKey[key]
		if !ok {
			return nil, missingError(labels[key])
		}
		resolved = append(resolved, resolvedRequirement{item: item, qty: totals[key]})
	}

	return l.apply(ctx, repo, resolved, func(item *models.InventoryItem, after decimal.Decimal) enums.StockStatus {
		return l.policy.ForOrderDeduction(after)
	})
}

// DeductByID resolves requirements by raw material id and applies the
// per-unit status table.
func (l *Ledger) DeductByID(ctx context.Context, tx *gorm.DB, reqs []Requirement) ([]Deduction, error) {
	order, totals, _ := aggregate(reqs, func(r Requirement) string { return r.RawMaterialID.String() })
	if len(order) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(order))
	for _, key := range order {
		ids = append(ids, uuid.MustParse(key))
	}

	repo := l.repo.WithTx(tx)
	items, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory items")
	}
	byID := make(map[uuid.UUID]*models.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	resolved := make([]resolvedRequirement, 0, len(order))
	for i, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrMissingInventory, fmt.Sprintf("raw material %s not found", id)).
				WithDetails(map[string]any{"rawMaterialId": id.String()})
		}
		resolved = append(resolved, resolvedRequirement{item: item, qty: totals[order[i]]})
	}

	now := l.clock()
	return l.apply(ctx, repo, resolved, func(item *models.InventoryItem, after decimal.Decimal) enums.StockStatus {
		return l.policy.ForUnit(after, item.Unit, item.ExpirationDate, now)
	})
}

func (l *Ledger) apply(
	ctx context.Context,
	repo Repository,
	resolved []resolvedRequirement,
	statusFor func(item *models.InventoryItem, after decimal.Decimal) enums.StockStatus,
) ([]Deduction, error) {
	now := l.clock()
	for _, req := range resolved {
		if stock.IsExpired(req.item.ExpirationDate, now) || req.item.Status == enums.StockStatusExpired {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBusinessRule, ErrExpiredStock, fmt.Sprintf("inventory item %q is expired", req.item.Name)).
				WithDetails(map[string]any{"ingredient": req.item.Name})
		}
		if req.item.Stock.LessThan(req.qty) {
			return nil, insufficientError(req.item.Name, req.qty, req.item.Stock)
		}
	}

	deductions := make([]Deduction, 0, len(resolved))
	for _, req := range resolved {
		ok, err := repo.Decrement(ctx, req.item.ID, req.qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement inventory stock")
		}
		if !ok {
			// stock moved between the check and the write
			current := req.item.Stock
			if fresh, findErr := repo.FindByID(ctx, req.item.ID); findErr == nil {
				current = fresh.Stock
			}
			return nil, insufficientError(req.item.Name, req.qty, current)
		}

		after := req.item.Stock.Sub(req.qty)
		if fresh, err := repo.FindByID(ctx, req.item.ID); err == nil {
			after = fresh.Stock
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload inventory item")
		}

		status := statusFor(req.item, after)
		if status != req.item.Status {
			if err := repo.Update(ctx, req.item.ID, map[string]any{"status": status}); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory status")
			}
		}

		deductions = append(deductions, Deduction{
			ItemID:   req.item.ID,
			Name:     req.item.Name,
			Quantity: req.qty,
			Before:   req.item.Stock,
			After:    after,
			Status:   status,
		})
	}
	return deductions, nil
}

// aggregate sums requirement quantities per key, keeping first-seen order and
// the first label seen for each key. Non-positive quantities are dropped.
func aggregate(reqs []Requirement, keyOf func(Requirement) string) ([]string, map[string]decimal.Decimal, map[string]string) {
	order := make([]string, 0, len(reqs))
	totals := make(map[string]decimal.Decimal, len(reqs))
	labels := make(map[string]string, len(reqs))
	for _, req := range reqs {
		if !req.Quantity.IsPositive() {
			continue
		}
		key := keyOf(req)
		if key == "" {
			continue
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
			labels[key] = strings.TrimSpace(req.Name)
			totals[key] = decimal.Zero
		}
		totals[key] = totals[key].Add(req.Quantity)
	}
	return order, totals, labels
}

func missingError(name string) error {
	return pkgerrors.Wrap(pkgerrors.CodeBusinessRule, ErrMissingInventory, fmt.Sprintf("ingredient %q not found in inventory", name)).
		WithDetails(map[string]any{"ingredient": name})
}

func insufficientError(name string, required, available decimal.Decimal) error {
	return pkgerrors.Wrap(
		pkgerrors.CodeBusinessRule,
		ErrInsufficientStock,
		fmt.Sprintf("insufficient stock for %q: required %s, available %s", name, required.String(), available.String()),
	).WithDetails(map[string]any{
		"ingredient": name,
		"required":   required.String(),
		"available":  available.String(),
	})
}
