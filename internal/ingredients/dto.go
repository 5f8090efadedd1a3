package ingredients

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientDTO is the public representation of an ingredient.
type IngredientDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Stock     decimal.Decimal    `json:"stock"`
	Unit      string             `json:"unit"`
	Recipe    []types.RecipeLine `json:"recipe"`
	Status    enums.StockStatus  `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// StockResultDTO is returned by create and add-stock.
type StockResultDTO struct {
	Ingredient IngredientDTO         `json:"ingredient"`
	Created    bool                  `json:"created"`
	Deductions []inventory.Deduction `json:"deductions"`
}

func ToDTO(ing *models.Ingredient) IngredientDTO {
	recipe := ing.Recipe
	if recipe == nil {
		recipe = []types.RecipeLine{}
	}
	return IngredientDTO{
		ID:        ing.ID,
		Name:      ing.Name,
		Stock:     ing.Stock,
		Unit:      ing.Unit,
		Recipe:    recipe,
		Status:    ing.Status,
		CreatedAt: ing.CreatedAt,
		UpdatedAt: ing.UpdatedAt,
	}
}

func ListToDTO(rows []models.Ingredient) []IngredientDTO {
	out := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}

func StockResultToDTO(res *StockResult) StockResultDTO {
	deductions := res.Deductions
	if deductions == nil {
		deductions = []inventory.Deduction{}
	}
	return StockResultDTO{Ingredient: ToDTO(res.Ingredient), Created: res.Created, Deductions: deductions}
}
