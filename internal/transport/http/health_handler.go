package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthResponse reports process liveness.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Render implements render.Renderer.
func (h *HealthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a health handler reporting the given version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Check returns 200 whenever the process can serve requests. The service is
// stateless, so there are no dependencies to probe.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, &HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
