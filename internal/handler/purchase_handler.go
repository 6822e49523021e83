package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/middleware"
	"github.com/climacrux/cdr-platform/internal/service"
)

type PurchaseHandler struct {
	svc *service.PurchaseService
}

func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

// Purchase must run behind middleware.APIKeyAuth.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	rr, err := h.svc.Purchase(c.Request.Context(), principal, service.PurchaseRequest{
		Basket:                 toBasket(req.QuoteRequest),
		ClientReferenceID:      req.ClientReferenceID,
		CertificateDisplayName: req.CertificateDisplayName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PurchaseResponse{TransactionUUID: rr.TransactionUUID})
}
