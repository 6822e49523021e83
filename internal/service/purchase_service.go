package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/climacrux/cdr-platform/internal/metrics"
	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
)

type RemovalRequestStore interface {
	Create(ctx context.Context, req *model.RemovalRequest) error
	FindByTransactionUUID(ctx context.Context, orgID string, txnUUID uuid.UUID) (*model.RemovalRequest, error)
	ListByOrganisation(ctx context.Context, orgID string, limit, offset int) ([]*model.RemovalRequest, int, error)
}

type PurchaseRequest struct {
	Basket                 pricing.Basket
	ClientReferenceID      string
	CertificateDisplayName string
}

type PurchaseService struct {
	engine  *pricing.Engine
	store   RemovalRequestStore
	metrics *metrics.Metrics
	newUUID func() uuid.UUID
	now     func() time.Time
}

func NewPurchaseService(engine *pricing.Engine, store RemovalRequestStore, m *metrics.Metrics) *PurchaseService {
	return &PurchaseService{
		engine:  engine,
		store:   store,
		metrics: m,
		newUUID: uuid.New,
		now:     time.Now,
	}
}

// Purchase prices the basket and records it for the principal's organisation.
// Nothing is written unless every item prices successfully.
func (s *PurchaseService) Purchase(ctx context.Context, principal *Principal, req PurchaseRequest) (*model.RemovalRequest, error) {
	quote, err := s.engine.PriceBasket(ctx, req.Basket)
	if err != nil {
		s.metrics.ObservePurchase(req.Basket.Currency, outcomeOf(err), 0)
		return nil, err
	}

	rr := s.recordFromQuote(principal, req, quote)
	if err := s.store.Create(ctx, rr); err != nil {
		s.metrics.ObservePurchase(req.Basket.Currency, metrics.OutcomeError, 0)
		return nil, fmt.Errorf("record removal request: %w", err)
	}
	s.metrics.ObservePurchase(req.Basket.Currency, metrics.OutcomeSuccess, quote.RemovalTotal)

	log.Info().
		Str("transaction_uuid", rr.TransactionUUID.String()).
		Str("organisation_id", principal.OrganisationID).
		Bool("is_test", rr.IsTest).
		Int("items", len(rr.Items)).
		Int64("removal_cost", quote.RemovalTotal).
		Str("currency", quote.Currency.Wire()).
		Msg("removal request recorded")

	return rr, nil
}

func (s *PurchaseService) recordFromQuote(principal *Principal, req PurchaseRequest, quote *pricing.Quote) *model.RemovalRequest {
	orgID := principal.OrganisationID
	rr := &model.RemovalRequest{
		TransactionUUID:        s.newUUID(),
		RequestedAt:            s.now().UTC(),
		WeightUnit:             quote.WeightUnit,
		Currency:               quote.Currency,
		OrganisationID:         &orgID,
		IsTest:                 principal.IsTest,
		ClientReferenceID:      req.ClientReferenceID,
		CertificateDisplayName: req.CertificateDisplayName,
		Items:                  make([]model.RemovalRequestItem, len(quote.Items)),
	}
	for i, it := range quote.Items {
		partnerID := it.Partner.ID
		rr.Items[i] = model.RemovalRequestItem{
			RemovalPartnerID: &partnerID,
			CDRCost:          it.Cost,
			VariableFees:     it.VariableFees,
			CDRAmount:        it.Amount,
		}
	}
	return rr
}
