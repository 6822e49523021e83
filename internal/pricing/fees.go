package pricing

import (
	"fmt"
	"math/big"
)

// DefaultFeePercentage is the platform's share of the grand total.
const DefaultFeePercentage = 8

// FeeCalculator derives the variable platform fee from a removal cost. The
// fee is a percentage of the grand total (removal + fee), not of the removal
// cost alone, so fee = ceil(removal * pct / (100 - pct)).
type FeeCalculator struct {
	pct int64
}

func NewFeeCalculator(pct int) (FeeCalculator, error) {
	if pct <= 0 || pct >= 100 {
		return FeeCalculator{}, fmt.Errorf("%w: got %d", ErrInvalidFeePercentage, pct)
	}
	return FeeCalculator{pct: int64(pct)}, nil
}

// MustFeeCalculator panics on an invalid percentage.
func MustFeeCalculator(pct int) FeeCalculator {
	fc, err := NewFeeCalculator(pct)
	if err != nil {
		panic(err)
	}
	return fc
}

func (f FeeCalculator) Percentage() int {
	return int(f.pct)
}

// VariableFee rounds up; a zero removal cost carries no fee.
func (f FeeCalculator) VariableFee(removalCost int64) (int64, error) {
	if f.pct == 0 {
		return 0, ErrInvalidFeePercentage
	}
	if removalCost < 0 {
		return 0, fmt.Errorf("variable fee: negative removal cost %d", removalCost)
	}

	num := new(big.Int).Mul(big.NewInt(removalCost), big.NewInt(f.pct))
	den := big.NewInt(100 - f.pct)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return 0, fmt.Errorf("variable fee: %w", ErrAmountOverflow)
	}
	return q.Int64(), nil
}
