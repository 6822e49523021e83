package pricing

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/climacrux/cdr-platform/internal/model"
)

const (
	gramsPerKilogram = 1_000
	gramsPerTonne    = 1_000_000
)

// ToGrams converts a CDR amount into grams. The unit must already be one of
// the supported weight units.
func ToGrams(amount int64, unit model.WeightUnit) *big.Int {
	n := big.NewInt(amount)
	switch unit {
	case model.WeightGram:
		return n
	case model.WeightKilogram:
		return n.Mul(n, big.NewInt(gramsPerKilogram))
	case model.WeightTonne:
		return n.Mul(n, big.NewInt(gramsPerTonne))
	}
	panic(fmt.Sprintf("pricing: unhandled weight unit %q", unit))
}

func ToGramsDecimal(amount int64, unit model.WeightUnit) decimal.Decimal {
	return decimal.NewFromBigInt(ToGrams(amount, unit), 0)
}

// ToKilograms converts an amount into whole kilograms, truncating any
// remainder below one kilogram.
func ToKilograms(amount int64, unit model.WeightUnit) *big.Int {
	g := ToGrams(amount, unit)
	return g.Quo(g, big.NewInt(gramsPerKilogram))
}
