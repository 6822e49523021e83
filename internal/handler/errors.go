package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/climacrux/cdr-platform/internal/dto"
	"github.com/climacrux/cdr-platform/internal/pricing"
	"github.com/climacrux/cdr-platform/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// writeError renders service errors. Anything unclassified is left to
// middleware.ErrorHandler.
func writeError(c *gin.Context, err error) {
	var ve *pricing.ValidationError
	var authErr *service.AuthenticationError

	switch {
	case errors.As(err, &ve):
		item := dto.ValidationError{Field: ve.Field, Message: ve.Message}
		if ve.Index >= 0 {
			idx := ve.Index
			item.Index = &idx
		}
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed",
			Errors: []dto.ValidationError{item},
		})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, dto.ErrorListResponse{Error: authErr.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorListResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
	}
}

// writeBindError renders request body errors from ShouldBindJSON.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		items := make([]dto.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			items = append(items, dto.ValidationError{Field: fe.Field(), Message: bindMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed", Errors: items})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "invalid request body: " + err.Error()})
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
