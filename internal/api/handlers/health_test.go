package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Ready(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		status int
		want   map[string]string
	}{
		{
			name:   "all healthy",
			checks: map[string]Pinger{"sqlite": ok, "redis": ok},
			status: http.StatusOK,
			want:   map[string]string{"sqlite": "healthy", "redis": "healthy"},
		},
		{
			name:   "one dependency down",
			checks: map[string]Pinger{"sqlite": ok, "nats": down},
			status: http.StatusServiceUnavailable,
			want:   map[string]string{"sqlite": "healthy", "nats": "unhealthy: connection refused"},
		},
		{
			name:   "unconfigured dependency does not fail readiness",
			checks: map[string]Pinger{"minio": nil},
			status: http.StatusOK,
			want:   map[string]string{"minio": "not configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks, "1.0.0", logger.NewNop())
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Checks)
			assert.Equal(t, "1.0.0", body.Version)
		})
	}
}
