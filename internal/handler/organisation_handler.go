package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/middleware"
	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/service"
)

type OrganisationHandler struct {
	orgs *service.OrganisationService
	keys *service.APIKeyService
}

func NewOrganisationHandler(orgs *service.OrganisationService, keys *service.APIKeyService) *OrganisationHandler {
	return &OrganisationHandler{orgs: orgs, keys: keys}
}

func (h *OrganisationHandler) Get(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	org, err := h.orgs.Get(c.Request.Context(), principal.OrganisationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrganisationResponse{ShortID: org.ShortID, Name: org.Name, CreatedAt: org.CreatedAt})
}

func (h *OrganisationHandler) ListKeys(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	keys, err := h.keys.List(c.Request.Context(), principal.OrganisationID)
	if err != nil {
		writeError(c, err)
		return
	}

	data := make([]dto.APIKeyResponse, len(keys))
	for i := range keys {
		data[i] = toAPIKeyResponse(&keys[i], "")
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// CreateKey returns the plaintext key. It is not retrievable afterwards.
func (h *OrganisationHandler) CreateKey(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	key, raw, err := h.keys.Create(c.Request.Context(), principal.OrganisationID, req.Name, req.Test)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAPIKeyResponse(key, raw))
}

func (h *OrganisationHandler) RevokeKey(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		writeError(c, &service.AuthenticationError{Reason: "api key not provided"})
		return
	}

	if err := h.keys.Revoke(c.Request.Context(), principal.OrganisationID, c.Param("prefix")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toAPIKeyResponse(k *model.OrganisationAPIKey, raw string) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		Name:       k.Name,
		Prefix:     k.Prefix,
		Test:       k.IsTest(),
		Revoked:    k.Revoked,
		ExpiryDate: k.ExpiryDate,
		CreatedAt:  k.CreatedAt,
		Key:        raw,
	}
}
