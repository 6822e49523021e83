package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climacrux/cdr-platform/internal/dto"
)

func TestRequestHandler(t *testing.T) {
	env := newTestEnv(t)

	var last dto.PurchaseResponse
	for i := 1; i <= 3; i++ {
		w := env.do("POST", "/api/v1/cdr", testKey, purchase(basket("t", "chf", item("forestation", int64(i*10)))))
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	}

	t.Run("get: derived totals", func(t *testing.T) {
		w := env.do("GET", "/api/v1/cdr/requests/"+last.TransactionUUID.String(), testKey, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp dto.RemovalRequestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, last.TransactionUUID, resp.TransactionUUID)
		assert.Equal(t, "chf", resp.Currency)
		assert.Equal(t, int64(30), resp.TotalAmount)
		assert.Equal(t, int64(33120), resp.RemovalCost)
		assert.Equal(t, int64(2880), resp.VariableFees)
		assert.Equal(t, int64(36000), resp.TotalCost)
	})

	t.Run("get: other organisation", func(t *testing.T) {
		w := env.do("GET", "/api/v1/cdr/requests/"+last.TransactionUUID.String(), otherKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get: unknown and malformed uuid", func(t *testing.T) {
		w := env.do("GET", "/api/v1/cdr/requests/"+uuid.NewString(), testKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = env.do("GET", "/api/v1/cdr/requests/not-a-uuid", testKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list: paginated newest first", func(t *testing.T) {
		w := env.do("GET", "/api/v1/cdr/requests?page=1&page_size=2", testKey, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.RemovalRequestListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, last.TransactionUUID, resp.Data[0].TransactionUUID)
		assert.Equal(t, dto.Pagination{Page: 1, PageSize: 2, TotalItems: 3, TotalPages: 2}, resp.Pagination)

		w = env.do("GET", "/api/v1/cdr/requests?page=2&page_size=2", testKey, nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
	})

	t.Run("list: other organisation sees nothing", func(t *testing.T) {
		w := env.do("GET", "/api/v1/cdr/requests", otherKey, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.RemovalRequestListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
		assert.Equal(t, 0, resp.Pagination.TotalItems)
	})

	t.Run("list: requires api key", func(t *testing.T) {
		w := env.do("GET", fmt.Sprintf("/api/v1/cdr/requests?page=%d", 1), "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
