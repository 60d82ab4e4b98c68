package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func serveHealth(t *testing.T, h *HealthHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Health)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHealth(t *testing.T) {
	t.Run("Reports pool metrics of a live database", func(t *testing.T) {
		tdb := database.NewTestDBManager(t)
		tdb.Manager.StartMonitoring(time.Hour)

		rec := serveHealth(t, NewHealthHandler(tdb.Manager, logger.NewNoopLogger()))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status string                         `json:"status"`
			Pool   database.ConnectionPoolMetrics `json:"pool"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, 1, body.Pool.MaxOpenConnections)
	})

	t.Run("Unavailable when the database does not answer", func(t *testing.T) {
		rec := serveHealth(t, NewHealthHandler(failingPinger{}, logger.NewNoopLogger()))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
	})
}
