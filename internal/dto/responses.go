package dto

import (
	"time"

	"github.com/google/uuid"
)

type QuoteItemResponse struct {
	MethodType string `json:"method_type"`
	CDRAmount  int64  `json:"cdr_amount"`
	Cost       int64  `json:"cost"`
}

type CostResponse struct {
	Items        []QuoteItemResponse `json:"items"`
	Removal      int64               `json:"removal"`
	VariableFees int64               `json:"variable_fees"`
	Total        int64               `json:"total"`
}

type QuoteResponse struct {
	Cost       CostResponse `json:"cost"`
	Currency   string       `json:"currency"`
	WeightUnit string       `json:"weight_unit"`
}

type PurchaseResponse struct {
	TransactionUUID uuid.UUID `json:"transaction_uuid"`
}

type RemovalRequestItemResponse struct {
	RemovalPartnerID *string `json:"removal_partner_id,omitempty"`
	CDRAmount        int64   `json:"cdr_amount"`
	CDRCost          int64   `json:"cdr_cost"`
	VariableFees     int64   `json:"variable_fees"`
}

type RemovalRequestResponse struct {
	TransactionUUID        uuid.UUID                    `json:"transaction_uuid"`
	RequestedAt            time.Time                    `json:"requested_at"`
	WeightUnit             string                       `json:"weight_unit"`
	Currency               string                       `json:"currency"`
	IsTest                 bool                         `json:"is_test"`
	ClientReferenceID      string                       `json:"client_reference_id,omitempty"`
	CertificateDisplayName string                       `json:"certificate_display_name,omitempty"`
	Items                  []RemovalRequestItemResponse `json:"items"`
	TotalAmount            int64                        `json:"total_amount"`
	RemovalCost            int64                        `json:"removal_cost"`
	VariableFees           int64                        `json:"variable_fees"`
	TotalCost              int64                        `json:"total_cost"`
}

type RemovalRequestListResponse struct {
	Data       []RemovalRequestResponse `json:"data"`
	Pagination Pagination               `json:"pagination"`
}

type CertificateResponse struct {
	CertificateID   string `json:"certificate_id"`
	DisplayName     string `json:"display_name"`
	IssuedDate      string `json:"issued_date"`
	RemovalAmountKg int64  `json:"removal_amount_kg"`
}

type RemovalMethodResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type OrganisationResponse struct {
	ShortID   string    `json:"short_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type APIKeyResponse struct {
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	Test       bool       `json:"test"`
	Revoked    bool       `json:"revoked"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Key        string     `json:"key,omitempty"`
}

type ValidationError struct {
	Index   *int   `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
