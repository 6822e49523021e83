package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/middleware"
	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/service"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

func (h *RequestHandler) List(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	params := dto.ParsePagination(c)
	reqs, total, err := h.svc.List(c.Request.Context(), principal.OrganisationID, params.PageSize, params.Offset)
	if err != nil {
		writeError(c, err)
		return
	}

	data := make([]dto.RemovalRequestResponse, len(reqs))
	for i, rr := range reqs {
		data[i] = toRemovalRequestResponse(rr)
	}
	c.JSON(http.StatusOK, dto.RemovalRequestListResponse{
		Data:       data,
		Pagination: dto.NewPagination(params.Page, params.PageSize, total),
	})
}

func (h *RequestHandler) Get(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	txnUUID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		writeError(c, fmt.Errorf("removal request %q: %w", c.Param("uuid"), service.ErrNotFound))
		return
	}

	rr, err := h.svc.Get(c.Request.Context(), principal.OrganisationID, txnUUID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRemovalRequestResponse(rr))
}

func toRemovalRequestResponse(rr *model.RemovalRequest) dto.RemovalRequestResponse {
	items := make([]dto.RemovalRequestItemResponse, len(rr.Items))
	for i, it := range rr.Items {
		items[i] = dto.RemovalRequestItemResponse{
			RemovalPartnerID: it.RemovalPartnerID,
			CDRAmount:        it.CDRAmount,
			CDRCost:          it.CDRCost,
			VariableFees:     it.VariableFees,
		}
	}
	return dto.RemovalRequestResponse{
		TransactionUUID:        rr.TransactionUUID,
		RequestedAt:            rr.RequestedAt,
		WeightUnit:             string(rr.WeightUnit),
		Currency:               rr.Currency.Wire(),
		IsTest:                 rr.IsTest,
		ClientReferenceID:      rr.ClientReferenceID,
		CertificateDisplayName: rr.CertificateDisplayName,
		Items:                  items,
		TotalAmount:            rr.TotalAmount(),
		RemovalCost:            rr.RemovalCost(),
		VariableFees:           rr.VariableFees(),
		TotalCost:              rr.TotalCost(),
	}
}
