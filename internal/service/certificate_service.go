package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
	"github.com/climacrux/cdr-platform/internal/repository"
)

type CertificateStore interface {
	FindByCertificateID(ctx context.Context, certificateID string) (*repository.CertificateRecord, error)
}

type CertificateDetails struct {
	Certificate     model.Certificate
	RemovalAmountKg int64
}

type CertificateService struct {
	store CertificateStore
}

func NewCertificateService(store CertificateStore) *CertificateService {
	return &CertificateService{store: store}
}

// Get returns the certificate with the removed amount in whole kilograms.
func (s *CertificateService) Get(ctx context.Context, certificateID string) (*CertificateDetails, error) {
	rec, err := s.store.FindByCertificateID(ctx, certificateID)
	if errors.Is(err, repository.ErrCertificateNotFound) {
		return nil, fmt.Errorf("certificate %s: %w", certificateID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	details := &CertificateDetails{Certificate: rec.Certificate}
	if rec.WeightUnit.Valid() {
		kg := pricing.ToKilograms(rec.TotalAmount, rec.WeightUnit)
		if !kg.IsInt64() {
			return nil, fmt.Errorf("certificate %s: %w", certificateID, pricing.ErrAmountOverflow)
		}
		details.RemovalAmountKg = kg.Int64()
	}
	return details, nil
}
