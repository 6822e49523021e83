package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/service"
)

type CertificateHandler struct {
	svc *service.CertificateService
}

func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

func (h *CertificateHandler) Get(c *gin.Context) {
	details, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	cert := details.Certificate
	c.JSON(http.StatusOK, dto.CertificateResponse{
		CertificateID:   cert.CertificateID,
		DisplayName:     cert.DisplayName,
		IssuedDate:      cert.IssuedDate.Format("2006-01-02"),
		RemovalAmountKg: details.RemovalAmountKg,
	})
}
