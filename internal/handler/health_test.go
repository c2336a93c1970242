package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(context.Context) error { return nil }

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		dependencies   []dependency
		expectedStatus int
		expectedChecks map[string]string
	}{
		{
			name:           "all dependencies up",
			dependencies:   []dependency{{name: "database", ping: healthy}, {name: "redis", ping: healthy}},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:           "redis not configured",
			dependencies:   []dependency{{name: "database", ping: healthy}, {name: "redis"}},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"database": "ok", "redis": "disabled"},
		},
		{
			name: "database down",
			dependencies: []dependency{
				{name: "database", ping: func(context.Context) error { return errors.New("connection refused") }},
				{name: "redis", ping: healthy},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"database": "failed: connection refused", "redis": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{dependencies: tt.dependencies, timeout: time.Second}

			w := httptest.NewRecorder()
			h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body struct {
				Success bool         `json:"success"`
				Data    HealthStatus `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedStatus == http.StatusOK, body.Success)
			assert.Equal(t, tt.expectedChecks, body.Data.Checks)
		})
	}
}

func TestHealthHandler_ReadyHonoursTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	h := &HealthHandler{dependencies: []dependency{{name: "database", ping: slow}}, timeout: 10 * time.Millisecond}

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandler_HealthSkipsDependencies(t *testing.T) {
	h := &HealthHandler{
		dependencies: []dependency{{name: "database", ping: func(context.Context) error {
			t.Fatal("liveness must not ping dependencies")
			return nil
		}}},
		timeout: time.Second,
	}

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
