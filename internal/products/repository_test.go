package product

import (
	"context"
	"testing"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Classic Milk Tea",
		Price: decimal.RequireFromString("120.00"),
		Ingredients: []types.ProductIngredient{
			{Name: "Black Tea", Quantity: decimal.NewFromInt(1)},
			{Name: "Milk", Quantity: decimal.RequireFromString("0.25")},
		},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestProductRepositoryRatingStats(t *testing.T) {
	tx := openTestDB(t)
	repo := NewProductRepository(tx)
	ctx := context.Background()
	product := mustCreateTestProduct(t, tx)

	if err := repo.UpdateRatingStats(ctx, product.ID, decimal.RequireFromString("4.5"), 2); err != nil {
		t.Fatalf("update rating stats: %v", err)
	}

	got, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if !got.AverageRating.Equal(decimal.RequireFromString("4.5")) || got.ReviewCount != 2 {
		t.Fatalf("unexpected stats %s/%d", got.AverageRating, got.ReviewCount)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[1].Name != "Milk" {
		t.Fatalf("ingredients not round-tripped: %+v", got.Ingredients)
	}

	byID, err := repo.FindByIDs(ctx, []uuid.UUID{product.ID, uuid.New()})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(byID) != 1 {
		t.Fatalf("expected one product, got %d", len(byID))
	}
}
