package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/climacrux/cdr-platform/internal/service"
)

const principalKey = "principal"

type KeyValidator interface {
	Validate(ctx context.Context, raw string) (*service.Principal, error)
}

// APIKeyAuth rejects the request with 401 unless the Authorization header
// carries a valid key under the given scheme.
func APIKeyAuth(v KeyValidator, scheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := service.ExtractKey(header)
		if scheme != "" && !strings.EqualFold(firstField(header), scheme) {
			raw = ""
		}

		principal, err := v.Validate(c.Request.Context(), raw)
		if err != nil {
			var authErr *service.AuthenticationError
			if errors.As(err, &authErr) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: authErr.Error()})
				return
			}
			log.Error().Err(err).Msg("api key validation failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the caller stored by APIKeyAuth.
func Principal(c *gin.Context) (*service.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*service.Principal)
	return p, ok
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
