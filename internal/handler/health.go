package handler

import (
	"net/http"

	"github.com/mindfulu/companion/internal/llm"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	llmClient llm.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(client llm.Client) *HealthHandler {
	return &HealthHandler{llmClient: client}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.llmClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "no completion provider configured",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
