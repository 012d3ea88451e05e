package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/raid-finder/internal/api/handlers"
	"github.com/hugh/raid-finder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := handlers.NewHealthHandler(db, nil)

	t.Run("healthy", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp handlers.HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, map[string]string{"database": "healthy"}, resp.Services)
	})

	t.Run("ready", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp handlers.HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Services["database"])
	})
}
