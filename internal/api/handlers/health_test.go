package handlers

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

type stubPinger struct {
	err   error
	delay time.Duration
}

func (p *stubPinger) Ping(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func getHealth(t *testing.T, h *HealthHandler) HealthResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth_BackendReachable(t *testing.T) {
	h := NewHealthHandler(&stubPinger{})

	resp := getHealth(t, h)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.SearchBackend)
}

func TestHealth_BackendUnreachable(t *testing.T) {
	h := NewHealthHandler(&stubPinger{err: errors.New("connection refused")})

	resp := getHealth(t, h)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "unreachable", resp.SearchBackend)
}

func TestHealth_SlowProbeFallsBackToUnknown(t *testing.T) {
	h := NewHealthHandler(&stubPinger{delay: time.Second})
	h.probeTimeout = 10 * time.Millisecond

	start := time.Now()
	resp := getHealth(t, h)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "unknown", resp.SearchBackend)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestHealth_NilPinger(t *testing.T) {
	h := NewHealthHandler(nil)

	resp := getHealth(t, h)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "unknown", resp.SearchBackend)
}
