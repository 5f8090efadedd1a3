package inventory

import (
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is the public representation of a raw material.
type ItemDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Stock          decimal.Decimal   `json:"stock"`
	Unit           string            `json:"unit"`
	ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
	Status         enums.StockStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func ItemToDTO(item *models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:             item.ID,
		Name:           item.Name,
		Stock:          item.Stock,
		Unit:           item.Unit,
		ExpirationDate: item.ExpirationDate,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func ItemsToDTO(items []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, ItemToDTO(&items[i]))
	}
	return out
}
