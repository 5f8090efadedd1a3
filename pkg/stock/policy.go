// Package stock derives availability labels for raw materials and ingredients.
package stock

import (
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/config"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Classify maps a quantity to a status against a low-stock threshold.
// Every status derivation in the service goes through this function.
func Classify(qty, lowThreshold decimal.Decimal) enums.StockStatus {
	switch {
	case !qty.IsPositive():
		return enums.StockStatusOutOfStock
	case qty.LessThanOrEqual(lowThreshold):
		return enums.StockStatusLowStock
	default:
		return enums.StockStatusInStock
	}
}

// Policy holds the two threshold tables in use: the per-unit table applied on
// inventory and ingredient writes, and the flat threshold applied when orders
// consume raw materials.
type Policy struct {
	unitThresholds map[string]decimal.Decimal
	defaultUnit    decimal.Decimal
	orderThreshold decimal.Decimal
}

// NewPolicy builds a Policy. Unit keys are matched case-insensitively.
func NewPolicy(unitThresholds map[string]decimal.Decimal, defaultUnit, orderThreshold decimal.Decimal) Policy {
	normalized := make(map[string]decimal.Decimal, len(unitThresholds))
	for unit, threshold := range unitThresholds {
		normalized[normalizeUnit(unit)] = threshold
	}
	return Policy{
		unitThresholds: normalized,
		defaultUnit:    defaultUnit,
		orderThreshold: orderThreshold,
	}
}

// PolicyFromConfig builds a Policy from the stock configuration.
func PolicyFromConfig(cfg config.StockConfig) (Policy, error) {
	units, err := cfg.UnitThresholds()
	if err != nil {
		return Policy{}, err
	}
	return NewPolicy(units, cfg.DefaultUnitThreshold(), cfg.OrderThreshold()), nil
}

// UnitThreshold returns the low-stock threshold for unit.
func (p Policy) UnitThreshold(unit string) decimal.Decimal {
	if threshold, ok := p.unitThresholds[normalizeUnit(unit)]; ok {
		return threshold
	}
	return p.defaultUnit
}

// ForUnit derives the status on inventory and ingredient writes. Items whose
// expiration date has passed are expired regardless of quantity.
func (p Policy) ForUnit(qty decimal.Decimal, unit string, expiresAt *time.Time, now time.Time) enums.StockStatus {
	if IsExpired(expiresAt, now) {
		return enums.StockStatusExpired
	}
	return Classify(qty, p.UnitThreshold(unit))
}

// ForOrderDeduction derives the status after an order consumed stock.
func (p Policy) ForOrderDeduction(qty decimal.Decimal) enums.StockStatus {
	return Classify(qty, p.orderThreshold)
}

// IsExpired reports whether expiresAt is set and not after now.
func IsExpired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && !expiresAt.After(now)
}

// NormalizeName produces the key used for case-insensitive name matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
