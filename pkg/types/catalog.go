package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductIngredient is one raw material a product consumes per unit sold,
// matched against inventory by name.
type ProductIngredient struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecipeLine is one raw material consumed per restock of an ingredient.
type RecipeLine struct {
	RawMaterialID uuid.UUID       `json:"rawMaterialId" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// AddonSnapshot is an add-on copied onto an order line at placement time.
type AddonSnapshot struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}
