package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// ReferenceChecker reports how many ingredient recipes use a raw material.
type ReferenceChecker interface {
	CountRecipesUsing(ctx context.Context, rawMaterialID uuid.UUID) (int, error)
}

// Service manages raw material records.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireDue(ctx context.Context) ([]models.InventoryItem, error)
}

// CreateInput describes a new raw material.
type CreateInput struct {
	Name           string
	Stock          decimal.Decimal
	Unit           string
	ExpirationDate *time.Time
}

// UpdateInput carries optional field changes.
type UpdateInput struct {
	Name           *string
	Stock          *decimal.Decimal
	Unit           *string
	ExpirationDate *time.Time
	ClearExpiry    bool
}

type service struct {
	repo   Repository
	refs   ReferenceChecker
	policy stock.Policy
	clock  func() time.Time
}

// NewService builds the inventory service.
func NewService(repo Repository, refs ReferenceChecker, policy stock.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if refs == nil {
		return nil, fmt.Errorf("reference checker required")
	}
	return &service{repo: repo, refs: refs, policy: policy, clock: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	unit := strings.TrimSpace(input.Unit)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if input.Stock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	key := stock.NormalizeName(name)
	if err := s.ensureNameFree(ctx, key, uuid.Nil, name); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		Name:           name,
		NameKey:        key,
		Stock:          input.Stock,
		Unit:           unit,
		ExpirationDate: input.ExpirationDate,
		Status:         s.policy.ForUnit(input.Stock, unit, input.ExpirationDate, s.clock()),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateName(name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status filter")
	}
	filters.Query = stock.NormalizeName(filters.Query)
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory items")
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.InventoryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		key := stock.NormalizeName(name)
		if key != item.NameKey {
			if err := s.ensureNameFree(ctx, key, item.ID, name); err != nil {
				return nil, err
			}
		}
		item.Name, item.NameKey = name, key
		updates["name"], updates["name_key"] = name, key
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit must not be empty")
		}
		item.Unit = unit
		updates["unit"] = unit
	}
	if input.Stock != nil {
		if input.Stock.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		item.Stock = *input.Stock
		updates["stock"] = *input.Stock
	}
	switch {
	case input.ClearExpiry:
		item.ExpirationDate = nil
		updates["expiration_date"] = nil
	case input.ExpirationDate != nil:
		item.ExpirationDate = input.ExpirationDate
		updates["expiration_date"] = *input.ExpirationDate
	}

	item.Status = s.policy.ForUnit(item.Stock, item.Unit, item.ExpirationDate, s.clock())
	updates["status"] = item.Status

	if err := s.repo.Update(ctx, item.ID, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateName(item.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.refs.CountRecipesUsing(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check recipe references")
	}
	if count > 0 {
		return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "raw material is used by %d ingredient recipe(s)", count).
			WithDetails(map[string]any{"recipes": count})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory item")
	}
	return nil
}

// ExpireDue flags every raw material past its expiration date. Items that
// failed to update are reported in the combined error; the returned slice
// holds the ones that were flagged.
func (s *service) ExpireDue(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.FindExpiredUnflagged(ctx, s.clock())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find expired inventory")
	}

	var (
		expired []models.InventoryItem
		errs    error
	)
	for _, item := range items {
		if err := s.repo.Update(ctx, item.ID, map[string]any{"status": enums.StockStatusExpired}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire %s: %w", item.ID, err))
			continue
		}
		item.Status = enums.StockStatusExpired
		expired = append(expired, item)
	}
	return expired, errs
}

func (s *service) ensureNameFree(ctx context.Context, key string, self uuid.UUID, name string) error {
	existing, err := s.repo.FindByNameKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check inventory name")
	}
	if existing.ID != self {
		return duplicateName(name)
	}
	return nil
}

func duplicateName(name string) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "inventory item %q already exists", name)
}
