package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/courseloop/coursegw/internal/api"
	"github.com/courseloop/coursegw/internal/service"
)

// Pinger checks reachability of the search backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger       Pinger
	probeTimeout time.Duration
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger, probeTimeout: 500 * time.Millisecond}
}

type HealthResponse struct {
	Status        string `json:"status"`
	SearchBackend string `json:"search_backend"`
}

// Health reports gateway liveness plus a best-effort search backend probe.
// The probe races a short deadline; when it loses, the backend state is
// reported as "unknown" rather than delaying or failing the endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	backend := "unknown"
	if h.pinger != nil {
		state, _ := service.FirstOf(r.Context(), h.probeTimeout, func(ctx context.Context) (string, error) {
			err := h.pinger.Ping(ctx)
			if ctx.Err() != nil {
				// Deadline won; report the same state as the fallback.
				return "unknown", nil
			}
			if err != nil {
				return "unreachable", nil
			}
			return "ok", nil
		}, "unknown")
		backend = state
	}

	api.JSON(w, http.StatusOK, HealthResponse{Status: "ok", SearchBackend: backend})
}
