package service

import (
	"context"
	"errors"

	"github.com/climacrux/cdr-platform/internal/metrics"
	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
)

type MethodLister interface {
	ListAvailableMethods(ctx context.Context) ([]model.RemovalMethod, error)
}

type PricingService struct {
	engine  *pricing.Engine
	methods MethodLister
	metrics *metrics.Metrics
}

func NewPricingService(engine *pricing.Engine, methods MethodLister, m *metrics.Metrics) *PricingService {
	return &PricingService{engine: engine, methods: methods, metrics: m}
}

// Quote prices a basket without persisting anything.
func (s *PricingService) Quote(ctx context.Context, basket pricing.Basket) (*pricing.Quote, error) {
	q, err := s.engine.PriceBasket(ctx, basket)
	s.metrics.ObserveQuote(basket.Currency, outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Methods lists the removal method slugs a basket may currently use.
func (s *PricingService) Methods(ctx context.Context) ([]model.RemovalMethod, error) {
	return s.methods.ListAvailableMethods(ctx)
}

func outcomeOf(err error) string {
	var ve *pricing.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &ve):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
