package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler(nil)

	c, rec := newRequestContext(http.MethodGet, "/health", "")
	require.NoError(t, h.Live(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandler_Ready(t *testing.T) {
	healthy := PingFunc(func(ctx context.Context) error { return nil })
	broken := PingFunc(func(ctx context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		status int
		want   map[string]string
	}{
		{"all healthy", map[string]Pinger{"postgres": healthy, "redis": healthy}, http.StatusOK,
			map[string]string{"postgres": "ok", "redis": "ok"}},
		{"one failing", map[string]Pinger{"postgres": healthy, "redis": broken}, http.StatusServiceUnavailable,
			map[string]string{"postgres": "ok", "redis": "unavailable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequestContext(http.MethodGet, "/health/ready", "")
			require.NoError(t, NewHealthHandler(tt.checks).Ready(c))

			assert.Equal(t, tt.status, rec.Code)
			var response HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.want, response.Checks)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
