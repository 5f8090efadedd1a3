package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RecipeDeducter takes recipe raw materials out of inventory by id.
type RecipeDeducter interface {
	DeductByID(ctx context.Context, tx *gorm.DB, reqs []inventory.Requirement) ([]inventory.Deduction, error)
}

// Service manages ingredients and their recipe-driven restocks.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*StockResult, error)
	AddStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*StockResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	List(ctx context.Context, filters ListFilters) ([]models.Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ingredient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountRecipesUsing(ctx context.Context, rawMaterialID uuid.UUID) (int, error)
}

// CreateInput describes an ingredient create-or-restock request. A nil Recipe
// keeps the stored recipe of an existing ingredient.
type CreateInput struct {
	Name   string
	Stock  decimal.Decimal
	Unit   string
	Recipe []types.RecipeLine
}

// UpdateInput carries optional metadata changes. Stock only moves through
// Create and AddStock.
type UpdateInput struct {
	Name   *string
	Unit   *string
	Recipe *[]types.RecipeLine
}

// StockResult reports the ingredient after a restock together with the raw
// material movements it caused.
type StockResult struct {
	Ingredient *models.Ingredient
	Created    bool
	Deductions []inventory.Deduction
}

type service struct {
	repo   Repository
	tx     txRunner
	ledger RecipeDeducter
	policy stock.Policy
	clock  func() time.Time
}

// NewService builds the ingredient service.
func NewService(repo Repository, tx txRunner, ledger RecipeDeducter, policy stock.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("recipe deducter required")
	}
	return &service{repo: repo, tx: tx, ledger: ledger, policy: policy, clock: time.Now}, nil
}

// Create inserts a new ingredient or, when the name already exists, restocks
// it. Either way the recipe raw materials are deducted once per call.
func (s *service) Create(ctx context.Context, input CreateInput) (*StockResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Stock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	if err := validateRecipe(input.Recipe); err != nil {
		return nil, err
	}
	key := stock.NormalizeName(name)

	var result *StockResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByNameKey(ctx, key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup ingredient")
		}

		if existing == nil {
			unit := strings.TrimSpace(input.Unit)
			if unit == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
			}
			ingredient := &models.Ingredient{
				Name:    name,
				NameKey: key,
				Stock:   decimal.Zero,
				Unit:    unit,
				Recipe:  input.Recipe,
			}
			deductions, err := s.restock(ctx, tx, ingredient, input.Stock)
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, ingredient); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.Newf(pkgerrors.CodeConflict, "ingredient %q already exists", name)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ingredient")
			}
			result = &StockResult{Ingredient: ingredient, Created: true, Deductions: deductions}
			return nil
		}

		if input.Recipe != nil {
			existing.Recipe = input.Recipe
		}
		deductions, err := s.restock(ctx, tx, existing, input.Stock)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock ingredient")
		}
		result = &StockResult{Ingredient: existing, Deductions: deductions}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AddStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*StockResult, error) {
	if !quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	var result *StockResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ingredient, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredient")
		}
		deductions, err := s.restock(ctx, tx, ingredient, quantity)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, ingredient); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restock ingredient")
		}
		result = &StockResult{Ingredient: ingredient, Deductions: deductions}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// restock deducts one recipe's worth of raw materials, whatever the delta,
// then applies the delta and re-derives status in memory.
func (s *service) restock(ctx context.Context, tx *gorm.DB, ingredient *models.Ingredient, delta decimal.Decimal) ([]inventory.Deduction, error) {
	var deductions []inventory.Deduction
	if len(ingredient.Recipe) > 0 {
		reqs := make([]inventory.Requirement, 0, len(ingredient.Recipe))
		for _, line := range ingredient.Recipe {
			reqs = append(reqs, inventory.Requirement{RawMaterialID: line.RawMaterialID, Quantity: line.Quantity})
		}
		var err error
		deductions, err = s.ledger.DeductByID(ctx, tx, reqs)
		if err != nil {
			return nil, err
		}
	}
	ingredient.Stock = ingredient.Stock.Add(delta)
	ingredient.Status = s.policy.ForUnit(ingredient.Stock, ingredient.Unit, nil, s.clock())
	return deductions, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	ingredient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredient")
	}
	return ingredient, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Ingredient, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status filter")
	}
	filters.Query = stock.NormalizeName(filters.Query)
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ingredients")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ingredient, error) {
	ingredient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		key := stock.NormalizeName(name)
		if key != ingredient.NameKey {
			other, err := s.repo.FindByNameKey(ctx, key)
			switch {
			case err == nil && other.ID != ingredient.ID:
				return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "ingredient %q already exists", name)
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check ingredient name")
			}
		}
		ingredient.Name, ingredient.NameKey = name, key
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit must not be empty")
		}
		ingredient.Unit = unit
	}
	if input.Recipe != nil {
		if err := validateRecipe(*input.Recipe); err != nil {
			return nil, err
		}
		ingredient.Recipe = *input.Recipe
	}
	ingredient.Status = s.policy.ForUnit(ingredient.Stock, ingredient.Unit, nil, s.clock())

	if err := s.repo.Save(ctx, ingredient); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "ingredient %q already exists", ingredient.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update ingredient")
	}
	return ingredient, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete ingredient")
	}
	return nil
}

// CountRecipesUsing counts the ingredients whose recipe names the raw material.
func (s *service) CountRecipesUsing(ctx context.Context, rawMaterialID uuid.UUID) (int, error) {
	rows, err := s.repo.ListWithRecipes(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, ingredient := range rows {
		for _, line := range ingredient.Recipe {
			if line.RawMaterialID == rawMaterialID {
				count++
				break
			}
		}
	}
	return count, nil
}

func validateRecipe(recipe []types.RecipeLine) error {
	seen := make(map[uuid.UUID]struct{}, len(recipe))
	for i, line := range recipe {
		if line.RawMaterialID == uuid.Nil {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "recipe[%d].rawMaterialId is required", i)
		}
		if !line.Quantity.IsPositive() {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "recipe[%d].quantity must be greater than zero", i)
		}
		if _, dup := seen[line.RawMaterialID]; dup {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "recipe lists raw material %s more than once", line.RawMaterialID)
		}
		seen[line.RawMaterialID] = struct{}{}
	}
	return nil
}
