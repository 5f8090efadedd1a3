package product

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the public catalog view of a product.
type ProductDTO struct {
	ID            uuid.UUID                 `json:"id"`
	Name          string                    `json:"name"`
	Image         *string                   `json:"image,omitempty"`
	Price         decimal.Decimal           `json:"price"`
	Ingredients   []types.ProductIngredient `json:"ingredients"`
	AverageRating decimal.Decimal           `json:"averageRating"`
	ReviewCount   int                       `json:"reviewCount"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

func mapProductToDTO(p *models.Product) *ProductDTO {
	ingredients := p.Ingredients
	if ingredients == nil {
		ingredients = []types.ProductIngredient{}
	}
	return &ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Image:         p.Image,
		Price:         p.Price,
		Ingredients:   ingredients,
		AverageRating: p.AverageRating.Round(1),
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
