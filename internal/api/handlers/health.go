package handlers

import (
	"net/http"
	"time"
)

// HealthHandler provides a minimal liveness check endpoint.
type HealthHandler struct {
	provider string
	started  time.Time
}

func NewHealthHandler(provider string) *HealthHandler {
	return &HealthHandler{provider: provider, started: time.Now()}
}

type healthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (h *HealthHandler) Serve(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:        "ok",
		Provider:      h.provider,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}
