package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/climacrux/cdr-platform/internal/model"
)

// RateLookup returns the most recent conversion rate for an exact currency
// pair, or ErrRateNotFound.
type RateLookup interface {
	LatestRate(ctx context.Context, from, to model.Currency) (decimal.Decimal, error)
}

// PartnerResolver returns the enabled partner linked to a removal method
// slug, or ErrPartnerNotFound.
type PartnerResolver interface {
	FindActiveByMethodSlug(ctx context.Context, slug string) (*model.RemovalPartner, error)
}

type BasketItem struct {
	MethodSlug string
	Amount     int64
}

type Basket struct {
	Items      []BasketItem
	WeightUnit model.WeightUnit
	Currency   model.Currency
}

type PricedItem struct {
	MethodSlug   string
	Amount       int64
	Cost         int64
	VariableFees int64
	Partner      *model.RemovalPartner
}

// Quote is the priced form of a basket. All money values are in the smallest
// denomination of Currency.
type Quote struct {
	Items        []PricedItem
	WeightUnit   model.WeightUnit
	Currency     model.Currency
	RemovalTotal int64
	VariableFees int64
	GrandTotal   int64
}

type Engine struct {
	rates    RateLookup
	partners PartnerResolver
	fees     FeeCalculator
}

func NewEngine(rates RateLookup, partners PartnerResolver, fees FeeCalculator) *Engine {
	return &Engine{rates: rates, partners: partners, fees: fees}
}

func (e *Engine) Fees() FeeCalculator {
	return e.fees
}

// PriceItem converts the partner's per-tonne cost for amount into currency,
// rounding up to the next minor unit.
func (e *Engine) PriceItem(ctx context.Context, partner *model.RemovalPartner, amount int64, unit model.WeightUnit, currency model.Currency) (int64, error) {
	grams := ToGramsDecimal(amount, unit)

	rate, err := e.rates.LatestRate(ctx, partner.Currency, currency)
	if err != nil {
		if errors.Is(err, ErrRateNotFound) {
			return 0, fmt.Errorf("%w: %s to %s", ErrCurrencyConversionUnavailable, partner.Currency, currency)
		}
		return 0, fmt.Errorf("lookup rate %s to %s: %w", partner.Currency, currency, err)
	}

	// Shift(-6) divides by grams-per-tonne without any rounding.
	partnerCost := decimal.NewFromInt(partner.CostPerTonne).Mul(grams).Shift(-6)
	cost := partnerCost.Mul(rate).Ceil().BigInt()
	if !cost.IsInt64() {
		return 0, ErrAmountOverflow
	}
	return cost.Int64(), nil
}

// PriceBasket validates and prices every item in order. The first failing
// item aborts the whole basket.
func (e *Engine) PriceBasket(ctx context.Context, b Basket) (*Quote, error) {
	if err := validateBasket(b); err != nil {
		return nil, err
	}

	q := &Quote{
		Items:      make([]PricedItem, 0, len(b.Items)),
		WeightUnit: b.WeightUnit,
		Currency:   b.Currency,
	}

	seen := make(map[string]struct{}, len(b.Items))
	for i, it := range b.Items {
		if err := checkItem(i, it, seen); err != nil {
			return nil, err
		}
		priced, err := e.priceBasketItem(ctx, i, it, b)
		if err != nil {
			return nil, err
		}
		if q.RemovalTotal > math.MaxInt64-priced.Cost {
			return nil, itemError(i, "cdr_amount", "basket total is too large", ErrAmountOverflow)
		}
		q.RemovalTotal += priced.Cost
		q.Items = append(q.Items, priced)
	}

	fees, err := e.fees.VariableFee(q.RemovalTotal)
	if err != nil {
		return nil, &ValidationError{Index: -1, Field: "items", Message: "basket total is too large", Err: err}
	}
	if q.RemovalTotal > math.MaxInt64-fees {
		return nil, &ValidationError{Index: -1, Field: "items", Message: "basket total is too large", Err: ErrAmountOverflow}
	}
	q.VariableFees = fees
	q.GrandTotal = q.RemovalTotal + fees

	return q, nil
}

func (e *Engine) priceBasketItem(ctx context.Context, i int, it BasketItem, b Basket) (PricedItem, error) {
	partner, err := e.partners.FindActiveByMethodSlug(ctx, it.MethodSlug)
	if err != nil {
		if errors.Is(err, ErrPartnerNotFound) {
			return PricedItem{}, itemError(i, "method_type",
				fmt.Sprintf("%q is not a valid removal method", it.MethodSlug), err)
		}
		return PricedItem{}, fmt.Errorf("resolve partner for %q: %w", it.MethodSlug, err)
	}

	cost, err := e.PriceItem(ctx, partner, it.Amount, b.WeightUnit, b.Currency)
	switch {
	case errors.Is(err, ErrCurrencyConversionUnavailable):
		return PricedItem{}, itemError(i, "method_type",
			fmt.Sprintf("no conversion rate from %s to %s", partner.Currency.Wire(), b.Currency.Wire()), err)
	case errors.Is(err, ErrAmountOverflow):
		return PricedItem{}, itemError(i, "cdr_amount", "amount is too large", err)
	case err != nil:
		return PricedItem{}, err
	}

	itemFees, err := e.fees.VariableFee(cost)
	if err != nil {
		return PricedItem{}, itemError(i, "cdr_amount", "amount is too large", err)
	}

	return PricedItem{
		MethodSlug:   it.MethodSlug,
		Amount:       it.Amount,
		Cost:         cost,
		VariableFees: itemFees,
		Partner:      partner,
	}, nil
}

func validateBasket(b Basket) error {
	if !b.WeightUnit.Valid() {
		return fieldError("weight_unit", fmt.Sprintf("%q is not a valid choice", b.WeightUnit))
	}
	if !b.Currency.Valid() {
		return fieldError("currency", fmt.Sprintf("%q is not a valid choice", b.Currency.Wire()))
	}
	if len(b.Items) == 0 {
		return fieldError("items", "ensure this field has at least 1 element")
	}

	return nil
}

// checkItem runs the lookup-free checks for one item. seen holds the slugs of
// the items before it.
func checkItem(i int, it BasketItem, seen map[string]struct{}) error {
	if strings.TrimSpace(it.MethodSlug) == "" {
		return itemError(i, "method_type", "this field is required", nil)
	}
	if it.Amount < 1 {
		return itemError(i, "cdr_amount", "ensure this value is greater than or equal to 1", nil)
	}
	if _, dup := seen[it.MethodSlug]; dup {
		return itemError(i, "method_type",
			fmt.Sprintf("%q can not appear more than once in items", it.MethodSlug), nil)
	}
	seen[it.MethodSlug] = struct{}{}
	return nil
}
