package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// LatestRate returns the newest stored rate for the exact pair. Identical
// currencies are looked up like any other pair.
func (r *RateRepository) LatestRate(ctx context.Context, from, to model.Currency) (decimal.Decimal, error) {
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT rate::text FROM currency_conversion_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY created_at DESC
		LIMIT 1`, string(from), string(to)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, pricing.ErrRateNotFound
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("query rate %s-%s: %w", from, to, err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse rate %s-%s: %w", from, to, err)
	}
	return rate, nil
}
