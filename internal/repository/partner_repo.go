package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
)

type PartnerRepository struct {
	pool *pgxpool.Pool
}

func NewPartnerRepository(pool *pgxpool.Pool) *PartnerRepository {
	return &PartnerRepository{pool: pool}
}

// FindActiveByMethodSlug returns pricing.ErrPartnerNotFound when the slug is
// unknown, has no linked partner, or only disabled partners.
func (r *PartnerRepository) FindActiveByMethodSlug(ctx context.Context, slug string) (*model.RemovalPartner, error) {
	p := &model.RemovalPartner{}
	var currency string
	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.removal_method_id, p.name, p.slug, p.description, p.website,
			p.cost_per_tonne, p.currency, p.disabled, p.created_at
		FROM removal_partners p
		JOIN removal_methods m ON m.id = p.removal_method_id
		WHERE m.slug = $1 AND NOT p.disabled
		ORDER BY p.created_at
		LIMIT 1`, slug).
		Scan(&p.ID, &p.RemovalMethodID, &p.Name, &p.Slug, &p.Description, &p.Website,
			&p.CostPerTonne, &currency, &p.Disabled, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pricing.ErrPartnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find partner for method %q: %w", slug, err)
	}
	p.Currency = model.Currency(currency)
	return p, nil
}

// ListAvailableMethods returns the removal methods that currently resolve to
// an enabled partner, ordered by slug.
func (r *PartnerRepository) ListAvailableMethods(ctx context.Context) ([]model.RemovalMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.slug, m.name, m.description, m.created_at
		FROM removal_methods m
		WHERE EXISTS (
			SELECT 1 FROM removal_partners p
			WHERE p.removal_method_id = m.id AND NOT p.disabled
		)
		ORDER BY m.slug`)
	if err != nil {
		return nil, fmt.Errorf("query removal methods: %w", err)
	}
	defer rows.Close()

	var results []model.RemovalMethod
	for rows.Next() {
		var m model.RemovalMethod
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan removal method: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate removal methods: %w", err)
	}
	return results, nil
}
