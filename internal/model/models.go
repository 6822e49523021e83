package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RemovalMethod struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RemovalPartner struct {
	ID              string    `json:"id"`
	RemovalMethodID *string   `json:"removal_method_id,omitempty"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	Website         string    `json:"website,omitempty"`
	CostPerTonne    int64     `json:"cost_per_tonne"`
	Currency        Currency  `json:"currency"`
	Disabled        bool      `json:"disabled"`
	CreatedAt       time.Time `json:"created_at"`
}

// CurrencyConversionRate rows are append-only; the newest row per pair wins.
type CurrencyConversionRate struct {
	ID           string          `json:"id"`
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CustomerOrganisation struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"short_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type OrganisationAPIKey struct {
	ID             string     `json:"id"`
	OrganisationID string     `json:"organisation_id"`
	Name           string     `json:"name"`
	Prefix         string     `json:"prefix"`
	HashedKey      string     `json:"-"`
	Revoked        bool       `json:"revoked"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsTest reports whether the key was issued for test traffic.
func (k *OrganisationAPIKey) IsTest() bool {
	return IsTestKeyPrefix(k.Prefix)
}

// HasExpired reports whether the key expiry is at or before now.
func (k *OrganisationAPIKey) HasExpired(now time.Time) bool {
	return k.ExpiryDate != nil && !k.ExpiryDate.After(now)
}

type RemovalRequest struct {
	ID                     string     `json:"-"`
	TransactionUUID        uuid.UUID  `json:"transaction_uuid"`
	RequestedAt            time.Time  `json:"requested_at"`
	WeightUnit             WeightUnit `json:"weight_unit"`
	Currency               Currency   `json:"currency"`
	OrganisationID         *string    `json:"organisation_id,omitempty"`
	IsTest                 bool       `json:"is_test"`
	ClientReferenceID      string     `json:"client_reference_id,omitempty"`
	CertificateDisplayName string     `json:"certificate_display_name,omitempty"`

	Items []RemovalRequestItem `json:"items,omitempty"`
}

// RemovalCost sums cdr_cost over the request's line items.
func (r *RemovalRequest) RemovalCost() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.CDRCost
	}
	return total
}

// VariableFees sums variable_fees over the request's line items.
func (r *RemovalRequest) VariableFees() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.VariableFees
	}
	return total
}

func (r *RemovalRequest) TotalCost() int64 {
	return r.RemovalCost() + r.VariableFees()
}

// TotalAmount sums cdr_amount in the request's weight unit.
func (r *RemovalRequest) TotalAmount() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.CDRAmount
	}
	return total
}

type RemovalRequestItem struct {
	ID               string  `json:"-"`
	RemovalRequestID string  `json:"-"`
	RemovalPartnerID *string `json:"removal_partner_id,omitempty"`
	CDRCost          int64   `json:"cdr_cost"`
	VariableFees     int64   `json:"variable_fees"`
	CDRAmount        int64   `json:"cdr_amount"`
}

type Certificate struct {
	ID               string    `json:"-"`
	CertificateID    string    `json:"certificate_id"`
	RemovalRequestID *string   `json:"-"`
	DisplayName      string    `json:"display_name"`
	IssuedDate       time.Time `json:"issued_date"`
}
