package dto

// BasketItemRequest fields are checked by the pricing engine so that errors
// carry the item index.
type BasketItemRequest struct {
	MethodType string `json:"method_type"`
	CDRAmount  int64  `json:"cdr_amount"`
}

type QuoteRequest struct {
	WeightUnit string              `json:"weight_unit" binding:"required"`
	Currency   string              `json:"currency" binding:"required"`
	Items      []BasketItemRequest `json:"items" binding:"required"`
}

type PurchaseRequest struct {
	QuoteRequest
	ClientReferenceID      string `json:"client_reference_id" binding:"max=128"`
	CertificateDisplayName string `json:"certificate_display_name" binding:"max=128"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"max=50"`
	Test bool   `json:"test"`
}
