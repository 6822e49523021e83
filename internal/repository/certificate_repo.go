package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climacrux/cdr-platform/internal/model"
)

var ErrCertificateNotFound = errors.New("certificate not found")

// CertificateRecord is a certificate joined with the removal it covers.
// TotalAmount is expressed in WeightUnit; both are zero-valued when the
// request has been deleted.
type CertificateRecord struct {
	model.Certificate
	WeightUnit  model.WeightUnit
	TotalAmount int64
}

type CertificateRepository struct {
	pool *pgxpool.Pool
}

func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

func (r *CertificateRepository) FindByCertificateID(ctx context.Context, certificateID string) (*CertificateRecord, error) {
	rec := &CertificateRecord{}
	var unit *string
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.certificate_id, c.removal_request_id, c.display_name, c.issued_date,
			rr.weight_unit, COALESCE(SUM(i.cdr_amount), 0)::bigint
		FROM certificates c
		LEFT JOIN removal_requests rr ON rr.id = c.removal_request_id
		LEFT JOIN removal_request_items i ON i.removal_request_id = rr.id
		WHERE c.certificate_id = $1
		GROUP BY c.id, rr.weight_unit`, certificateID).
		Scan(&rec.ID, &rec.CertificateID, &rec.RemovalRequestID, &rec.DisplayName, &rec.IssuedDate,
			&unit, &rec.TotalAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCertificateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	if unit != nil {
		rec.WeightUnit = model.WeightUnit(*unit)
	}
	return rec, nil
}
