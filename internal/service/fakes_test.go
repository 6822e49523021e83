package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
	"github.com/climacrux/cdr-platform/internal/repository"
)

type ratePair struct {
	from, to model.Currency
}

type memRates map[ratePair]decimal.Decimal

func (m memRates) LatestRate(_ context.Context, from, to model.Currency) (decimal.Decimal, error) {
	r, ok := m[ratePair{from, to}]
	if !ok {
		return decimal.Decimal{}, pricing.ErrRateNotFound
	}
	return r, nil
}

type memPartners map[string]*model.RemovalPartner

func (m memPartners) FindActiveByMethodSlug(_ context.Context, slug string) (*model.RemovalPartner, error) {
	p, ok := m[slug]
	if !ok || p.Disabled {
		return nil, pricing.ErrPartnerNotFound
	}
	return p, nil
}

func (m memPartners) ListAvailableMethods(context.Context) ([]model.RemovalMethod, error) {
	var out []model.RemovalMethod
	for slug, p := range m {
		if !p.Disabled {
			out = append(out, model.RemovalMethod{Slug: slug, Name: p.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func testEngine() *pricing.Engine {
	rates := memRates{
		{model.CurrencyUSD, model.CurrencyCHF}: decimal.RequireFromString("2.0"),
		{model.CurrencyCHF, model.CurrencyCHF}: decimal.RequireFromString("1.0"),
	}
	return pricing.NewEngine(rates, testPartners(), pricing.MustFeeCalculator(pricing.DefaultFeePercentage))
}

func testPartners() memPartners {
	return memPartners{
		"forestation": {ID: "p-eden", Name: "Eden", Slug: "eden", CostPerTonne: 552, Currency: model.CurrencyUSD},
		"bio-oil":     {ID: "p-charm", Name: "Charm", Slug: "charm", CostPerTonne: 60000, Currency: model.CurrencyCHF},
		"dac":         {ID: "p-climeworks", Name: "Climeworks", Slug: "climeworks", CostPerTonne: 100000, Currency: model.CurrencyCHF, Disabled: true},
	}
}

type memRequests struct {
	mu      sync.Mutex
	created []*model.RemovalRequest
	err     error
}

func (m *memRequests) Create(_ context.Context, req *model.RemovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	req.ID = uuid.NewString()
	for i := range req.Items {
		req.Items[i].ID = uuid.NewString()
		req.Items[i].RemovalRequestID = req.ID
	}
	m.created = append(m.created, req)
	return nil
}

func (m *memRequests) FindByTransactionUUID(_ context.Context, orgID string, txnUUID uuid.UUID) (*model.RemovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.created {
		if r.TransactionUUID == txnUUID && r.OrganisationID != nil && *r.OrganisationID == orgID {
			return r, nil
		}
	}
	return nil, repository.ErrRemovalRequestNotFound
}

func (m *memRequests) ListByOrganisation(_ context.Context, orgID string, limit, offset int) ([]*model.RemovalRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []*model.RemovalRequest
	for i := len(m.created) - 1; i >= 0; i-- {
		r := m.created[i]
		if r.OrganisationID != nil && *r.OrganisationID == orgID {
			mine = append(mine, r)
		}
	}
	total := len(mine)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return mine[offset:end], total, nil
}

type memKeys struct {
	mu   sync.Mutex
	keys map[string]*model.OrganisationAPIKey
}

func newMemKeys() *memKeys {
	return &memKeys{keys: map[string]*model.OrganisationAPIKey{}}
}

func (m *memKeys) Insert(_ context.Context, key *model.OrganisationAPIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.keys[key.Prefix]; dup {
		return errors.New("duplicate prefix")
	}
	key.ID = uuid.NewString()
	key.CreatedAt = time.Now()
	cp := *key
	m.keys[key.Prefix] = &cp
	return nil
}

func (m *memKeys) FindByPrefix(_ context.Context, prefix string) (*model.OrganisationAPIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[prefix]
	if !ok {
		return nil, repository.ErrAPIKeyNotFound
	}
	cp := *k
	return &cp, nil
}

func (m *memKeys) ListByOrganisation(_ context.Context, orgID string) ([]model.OrganisationAPIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.OrganisationAPIKey
	for _, k := range m.keys {
		if k.OrganisationID == orgID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *memKeys) ExpireByPrefix(_ context.Context, orgID, prefix string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[prefix]
	if !ok || k.OrganisationID != orgID {
		return repository.ErrAPIKeyNotFound
	}
	k.ExpiryDate = &at
	return nil
}
