package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pilab-dev/osm-auth/config"
	"github.com/pilab-dev/osm-auth/internal/metrics"
	"github.com/pilab-dev/osm-auth/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, opts HTTPOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.ServerConfig{HTTPPort: "0", OtelServiceName: "osm-auth-test"}
	logger := log.NewZerologAdapterWithWriter(io.Discard, zerolog.Disabled, false)
	return NewRouter(cfg, logger, nil, opts)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantState  string
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantState:  "ok",
		},
		{
			name: "mongo up",
			checks: map[string]HealthCheck{
				"mongodb": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantState:  "ok",
		},
		{
			name: "redis down",
			checks: map[string]HealthCheck{
				"mongodb": func(context.Context) error { return nil },
				"redis":   func(context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, HTTPOptions{Checks: tt.checks})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.InitCustomMetrics(reg)
	metrics.LoginChallengesTotal.Inc()

	router := newTestRouter(t, HTTPOptions{Gatherer: reg})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "osm_auth_login_challenges_total")
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	router := newTestRouter(t, HTTPOptions{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	cfg := &config.ServerConfig{HTTPPort: "9090", OtelServiceName: "osm-auth-test"}
	logger := log.NewZerologAdapterWithWriter(io.Discard, zerolog.Disabled, false)

	srv := NewHTTPServer(cfg, logger, nil, HTTPOptions{})
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 120*time.Second, srv.IdleTimeout)
}
