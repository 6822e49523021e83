package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	Health       *HealthHandler
	Pricing      *PricingHandler
	Purchase     *PurchaseHandler
	Requests     *RequestHandler
	Certificates *CertificateHandler
	Organisation *OrganisationHandler
}

// RegisterRoutes mounts the public API. auth guards every route that acts on
// behalf of an organisation.
func RegisterRoutes(router *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	router.GET("/health", h.Health.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/removal-methods", h.Pricing.Methods)
		api.POST("/cdr/price", h.Pricing.Quote)
	}

	private := api.Group("", auth)
	{
		private.POST("/cdr", h.Purchase.Purchase)
		private.GET("/cdr/requests", h.Requests.List)
		private.GET("/cdr/requests/:uuid", h.Requests.Get)
		private.GET("/certificates/:id", h.Certificates.Get)
		private.GET("/organisation", h.Organisation.Get)
		private.GET("/organisation/api-keys", h.Organisation.ListKeys)
		private.POST("/organisation/api-keys", h.Organisation.CreateKey)
		private.DELETE("/organisation/api-keys/:prefix", h.Organisation.RevokeKey)
	}
}
