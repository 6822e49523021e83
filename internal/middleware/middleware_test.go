package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climacrux/cdr-platform/internal/service"
)

type stubValidator struct {
	keys map[string]*service.Principal
	err  error
}

func (s stubValidator) Validate(_ context.Context, raw string) (*service.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.keys[raw]
	if !ok {
		return nil, &service.AuthenticationError{Reason: "api key does not exist or has been revoked"}
	}
	return p, nil
}

func authRouter(v KeyValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger())
	router.GET("/private", APIKeyAuth(v, "Api-Key"), func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"organisation_id": p.OrganisationID})
	})
	return router
}

func TestAPIKeyAuth(t *testing.T) {
	v := stubValidator{keys: map[string]*service.Principal{
		"prod_abcdefgh.secret": {OrganisationID: "org-1"},
	}}
	router := authRouter(v)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Api-Key prod_abcdefgh.secret", http.StatusOK},
		{"scheme is case insensitive", "api-key prod_abcdefgh.secret", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Bearer prod_abcdefgh.secret", http.StatusUnauthorized},
		{"unknown key", "Api-Key prod_zzzzzzzz.secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestAPIKeyAuth_StoreFailure(t *testing.T) {
	router := authRouter(stubValidator{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Api-Key prod_abcdefgh.secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogger_KeepsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMapDBError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"no rows", fmt.Errorf("find: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{"check", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514"}), http.StatusBadRequest},
		{"too long", &pgconn.PgError{Code: "22001"}, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := MapDBError(tc.err)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/dup", func(c *gin.Context) {
		_ = c.Error(&pgconn.PgError{Code: "23505", Detail: "Key (prefix) already exists."})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/dup", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "resource already exists", resp.Error)
}
