package model

import (
	"fmt"
	"strings"
)

// Currency is the closed set of currencies a partner can price in and a
// customer can request. Values are lowercase on the wire and uppercase in
// the database, matching ISO 4217 codes.
type Currency string

const (
	CurrencyCHF Currency = "CHF"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// Currencies lists every supported currency in display order.
var Currencies = []Currency{CurrencyCHF, CurrencyUSD, CurrencyGBP, CurrencyEUR}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyCHF, CurrencyUSD, CurrencyGBP, CurrencyEUR:
		return c, nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyCHF, CurrencyUSD, CurrencyGBP, CurrencyEUR:
		return true
	}
	return false
}

// Wire returns the lowercase code used in API payloads.
func (c Currency) Wire() string {
	return strings.ToLower(string(c))
}

// WeightUnit is the unit a basket's cdr_amount values are expressed in.
type WeightUnit string

const (
	WeightGram     WeightUnit = "g"
	WeightKilogram WeightUnit = "kg"
	WeightTonne    WeightUnit = "t"
)

var WeightUnits = []WeightUnit{WeightGram, WeightKilogram, WeightTonne}

func ParseWeightUnit(s string) (WeightUnit, error) {
	u := WeightUnit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case WeightGram, WeightKilogram, WeightTonne:
		return u, nil
	}
	return "", fmt.Errorf("unsupported weight unit %q", s)
}

func (u WeightUnit) Valid() bool {
	switch u {
	case WeightGram, WeightKilogram, WeightTonne:
		return true
	}
	return false
}

const (
	TestKeyPrefix = "test_"
	ProdKeyPrefix = "prod_"
)

func IsTestKeyPrefix(prefix string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(prefix)), TestKeyPrefix)
}

func IsProdKeyPrefix(prefix string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(prefix)), ProdKeyPrefix)
}
