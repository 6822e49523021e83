package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/climacrux/cdr-platform/internal/model"
)

var ErrRemovalRequestNotFound = errors.New("removal request not found")

type RemovalRequestRepository struct {
	pool *pgxpool.Pool
}

func NewRemovalRequestRepository(pool *pgxpool.Pool) *RemovalRequestRepository {
	return &RemovalRequestRepository{pool: pool}
}

// Create writes the request header and all of its items in one transaction.
// Nothing is persisted if any row fails, and req is only given ids once the
// transaction has committed.
func (r *RemovalRequestRepository) Create(ctx context.Context, req *model.RemovalRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin removal request transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var requestID string
	err = tx.QueryRow(ctx,
		`INSERT INTO removal_requests (transaction_uuid, requested_at, weight_unit, currency,
			customer_organisation_id, is_test, client_reference_id, certificate_display_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		req.TransactionUUID, req.RequestedAt, string(req.WeightUnit), string(req.Currency),
		req.OrganisationID, req.IsTest, req.ClientReferenceID, req.CertificateDisplayName,
	).Scan(&requestID)
	if err != nil {
		return fmt.Errorf("insert removal request: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range req.Items {
		batch.Queue(
			`INSERT INTO removal_request_items (removal_request_id, removal_partner_id, position, cdr_cost, variable_fees, cdr_amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			requestID, it.RemovalPartnerID, i, it.CDRCost, it.VariableFees, it.CDRAmount,
		)
	}

	itemIDs := make([]string, len(req.Items))
	br := tx.SendBatch(ctx, batch)
	for i := range req.Items {
		if err := br.QueryRow().Scan(&itemIDs[i]); err != nil {
			br.Close()
			return fmt.Errorf("insert removal request item %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit removal request: %w", err)
	}

	req.ID = requestID
	for i := range req.Items {
		req.Items[i].ID = itemIDs[i]
		req.Items[i].RemovalRequestID = requestID
	}
	return nil
}

// FindByTransactionUUID loads a request and its items, scoped to the owning
// organisation.
func (r *RemovalRequestRepository) FindByTransactionUUID(ctx context.Context, orgID string, txnUUID uuid.UUID) (*model.RemovalRequest, error) {
	req, err := scanRemovalRequest(r.pool.QueryRow(ctx,
		`SELECT `+removalRequestColumns+`
		FROM removal_requests
		WHERE transaction_uuid = $1 AND customer_organisation_id = $2`, txnUUID, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRemovalRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find removal request: %w", err)
	}

	if err := r.attachItems(ctx, []*model.RemovalRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// ListByOrganisation returns a page of requests, newest first, with the total
// count for pagination.
func (r *RemovalRequestRepository) ListByOrganisation(ctx context.Context, orgID string, limit, offset int) ([]*model.RemovalRequest, int, error) {
	var (
		totalItems int
		results    []*model.RemovalRequest
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.pool.QueryRow(gctx,
			`SELECT COUNT(*) FROM removal_requests WHERE customer_organisation_id = $1`, orgID).Scan(&totalItems)
		if err != nil {
			return fmt.Errorf("count removal requests: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.pool.Query(gctx,
			`SELECT `+removalRequestColumns+`
			FROM removal_requests
			WHERE customer_organisation_id = $1
			ORDER BY requested_at DESC, id
			LIMIT $2 OFFSET $3`, orgID, limit, offset)
		if err != nil {
			return fmt.Errorf("query removal requests: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			req, err := scanRemovalRequest(rows)
			if err != nil {
				return fmt.Errorf("scan removal request: %w", err)
			}
			results = append(results, req)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate removal requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if err := r.attachItems(ctx, results); err != nil {
		return nil, 0, err
	}
	return results, totalItems, nil
}

const removalRequestColumns = `id, transaction_uuid, requested_at, weight_unit, currency,
	customer_organisation_id, is_test, client_reference_id, certificate_display_name`

func scanRemovalRequest(row pgx.Row) (*model.RemovalRequest, error) {
	req := &model.RemovalRequest{}
	var unit, currency string
	err := row.Scan(&req.ID, &req.TransactionUUID, &req.RequestedAt, &unit, &currency,
		&req.OrganisationID, &req.IsTest, &req.ClientReferenceID, &req.CertificateDisplayName)
	if err != nil {
		return nil, err
	}
	req.WeightUnit = model.WeightUnit(unit)
	req.Currency = model.Currency(currency)
	return req, nil
}

func (r *RemovalRequestRepository) attachItems(ctx context.Context, reqs []*model.RemovalRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	ids := make([]string, len(reqs))
	byID := make(map[string]*model.RemovalRequest, len(reqs))
	for i, req := range reqs {
		ids[i] = req.ID
		byID[req.ID] = req
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, removal_request_id, removal_partner_id, cdr_cost, variable_fees, cdr_amount
		FROM removal_request_items
		WHERE removal_request_id = ANY($1::uuid[])
		ORDER BY removal_request_id, position`, ids)
	if err != nil {
		return fmt.Errorf("query removal request items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it model.RemovalRequestItem
		if err := rows.Scan(&it.ID, &it.RemovalRequestID, &it.RemovalPartnerID,
			&it.CDRCost, &it.VariableFees, &it.CDRAmount); err != nil {
			return fmt.Errorf("scan removal request item: %w", err)
		}
		if req, ok := byID[it.RemovalRequestID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return rows.Err()
}
