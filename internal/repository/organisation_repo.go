package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climacrux/cdr-platform/internal/model"
)

var ErrOrganisationNotFound = errors.New("organisation not found")

type OrganisationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganisationRepository(pool *pgxpool.Pool) *OrganisationRepository {
	return &OrganisationRepository{pool: pool}
}

func (r *OrganisationRepository) Create(ctx context.Context, shortID, name string) (*model.CustomerOrganisation, error) {
	org := &model.CustomerOrganisation{ShortID: shortID, Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customer_organisations (short_id, name) VALUES ($1, $2)
		RETURNING id, created_at`, shortID, name).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert organisation: %w", err)
	}
	return org, nil
}

func (r *OrganisationRepository) FindByID(ctx context.Context, id string) (*model.CustomerOrganisation, error) {
	return r.findOne(ctx, "id", id)
}

func (r *OrganisationRepository) FindByShortID(ctx context.Context, shortID string) (*model.CustomerOrganisation, error) {
	return r.findOne(ctx, "short_id", shortID)
}

func (r *OrganisationRepository) findOne(ctx context.Context, column, value string) (*model.CustomerOrganisation, error) {
	org := &model.CustomerOrganisation{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, short_id, name, created_at FROM customer_organisations WHERE `+column+` = $1`, value).
		Scan(&org.ID, &org.ShortID, &org.Name, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrganisationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find organisation by %s: %w", column, err)
	}
	return org, nil
}
