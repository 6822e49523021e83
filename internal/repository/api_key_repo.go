package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climacrux/cdr-platform/internal/model"
)

var ErrAPIKeyNotFound = errors.New("api key not found")

type APIKeyRepository struct {
	pool *pgxpool.Pool
}

func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

func (r *APIKeyRepository) Insert(ctx context.Context, key *model.OrganisationAPIKey) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO organisation_api_keys (organisation_id, name, prefix, hashed_key, revoked, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		key.OrganisationID, key.Name, key.Prefix, key.HashedKey, key.Revoked, key.ExpiryDate,
	).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) FindByPrefix(ctx context.Context, prefix string) (*model.OrganisationAPIKey, error) {
	k := &model.OrganisationAPIKey{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, organisation_id, name, prefix, hashed_key, revoked, expiry_date, created_at
		FROM organisation_api_keys
		WHERE prefix = $1`, prefix).
		Scan(&k.ID, &k.OrganisationID, &k.Name, &k.Prefix, &k.HashedKey, &k.Revoked, &k.ExpiryDate, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find api key: %w", err)
	}
	return k, nil
}

// ListByOrganisation returns the organisation's keys, newest first. Hashes are
// loaded but never serialised.
func (r *APIKeyRepository) ListByOrganisation(ctx context.Context, orgID string) ([]model.OrganisationAPIKey, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organisation_id, name, prefix, hashed_key, revoked, expiry_date, created_at
		FROM organisation_api_keys
		WHERE organisation_id = $1
		ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("query api keys: %w", err)
	}
	defer rows.Close()

	var results []model.OrganisationAPIKey
	for rows.Next() {
		var k model.OrganisationAPIKey
		if err := rows.Scan(&k.ID, &k.OrganisationID, &k.Name, &k.Prefix, &k.HashedKey,
			&k.Revoked, &k.ExpiryDate, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		results = append(results, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api keys: %w", err)
	}
	return results, nil
}

// ExpireByPrefix sets the key's expiry to at. Keys of other organisations are
// left alone and reported as not found.
func (r *APIKeyRepository) ExpireByPrefix(ctx context.Context, orgID, prefix string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organisation_api_keys SET expiry_date = $3
		WHERE organisation_id = $1 AND prefix = $2`, orgID, prefix, at)
	if err != nil {
		return fmt.Errorf("expire api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}
