package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/model"
	"github.com/climacrux/cdr-platform/internal/pricing"
	"github.com/climacrux/cdr-platform/internal/service"
)

type PricingHandler struct {
	svc *service.PricingService
}

func NewPricingHandler(svc *service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	q, err := h.svc.Quote(c.Request.Context(), toBasket(req))
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]dto.QuoteItemResponse, len(q.Items))
	for i, it := range q.Items {
		items[i] = dto.QuoteItemResponse{MethodType: it.MethodSlug, CDRAmount: it.Amount, Cost: it.Cost}
	}

	c.JSON(http.StatusCreated, dto.QuoteResponse{
		Cost: dto.CostResponse{
			Items:        items,
			Removal:      q.RemovalTotal,
			VariableFees: q.VariableFees,
			Total:        q.GrandTotal,
		},
		Currency:   q.Currency.Wire(),
		WeightUnit: string(q.WeightUnit),
	})
}

func (h *PricingHandler) Methods(c *gin.Context) {
	methods, err := h.svc.Methods(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]dto.RemovalMethodResponse, len(methods))
	for i, m := range methods {
		results[i] = dto.RemovalMethodResponse{Slug: m.Slug, Name: m.Name, Description: m.Description}
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// toBasket normalises case on currency and unit. Unparseable values are
// passed through so the engine reports them against their field.
func toBasket(req dto.QuoteRequest) pricing.Basket {
	unit, err := model.ParseWeightUnit(req.WeightUnit)
	if err != nil {
		unit = model.WeightUnit(req.WeightUnit)
	}
	currency, err := model.ParseCurrency(req.Currency)
	if err != nil {
		currency = model.Currency(req.Currency)
	}

	items := make([]pricing.BasketItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.BasketItem{MethodSlug: it.MethodType, Amount: it.CDRAmount}
	}
	return pricing.Basket{Items: items, WeightUnit: unit, Currency: currency}
}
