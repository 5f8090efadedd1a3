package stock

import (
	"testing"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPolicy() Policy {
	return NewPolicy(map[string]decimal.Decimal{
		"KG":  decimal.NewFromInt(2),
		"pcs": decimal.NewFromInt(10),
	}, decimal.NewFromInt(5), decimal.NewFromInt(10))
}

func TestClassify(t *testing.T) {
	threshold := decimal.NewFromInt(10)
	assert.Equal(t, enums.StockStatusOutOfStock, Classify(decimal.Zero, threshold))
	assert.Equal(t, enums.StockStatusOutOfStock, Classify(decimal.NewFromInt(-1), threshold))
	assert.Equal(t, enums.StockStatusLowStock, Classify(decimal.NewFromInt(10), threshold))
	assert.Equal(t, enums.StockStatusInStock, Classify(decimal.RequireFromString("10.5"), threshold))
}

func TestForOrderDeductionUsesFlatThreshold(t *testing.T) {
	p := testPolicy()
	assert.Equal(t, enums.StockStatusOutOfStock, p.ForOrderDeduction(decimal.Zero))
	assert.Equal(t, enums.StockStatusLowStock, p.ForOrderDeduction(decimal.NewFromInt(8)))
	assert.Equal(t, enums.StockStatusInStock, p.ForOrderDeduction(decimal.NewFromInt(11)))
}

func TestForUnitUsesUnitTable(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 8 kg is plenty under the kg threshold even though the order threshold would call it low.
	assert.Equal(t, enums.StockStatusInStock, p.ForUnit(decimal.NewFromInt(8), "kg", nil, now))
	assert.Equal(t, enums.StockStatusLowStock, p.ForUnit(decimal.NewFromInt(8), "pcs", nil, now))
	assert.Equal(t, enums.StockStatusLowStock, p.ForUnit(decimal.NewFromInt(5), "bottle", nil, now))
	assert.Equal(t, enums.StockStatusOutOfStock, p.ForUnit(decimal.Zero, "kg", nil, now))
}

func TestForUnitExpiry(t *testing.T) {
	p := testPolicy()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, enums.StockStatusExpired, p.ForUnit(decimal.NewFromInt(50), "kg", &past, now))
	assert.Equal(t, enums.StockStatusExpired, p.ForUnit(decimal.NewFromInt(50), "kg", &now, now))
	assert.Equal(t, enums.StockStatusInStock, p.ForUnit(decimal.NewFromInt(50), "kg", &future, now))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "brown sugar", NormalizeName("  Brown   SUGAR "))
	assert.Equal(t, NormalizeName("Milk"), NormalizeName("mILK"))
}
