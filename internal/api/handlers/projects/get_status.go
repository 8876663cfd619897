package projects

import (
	"net/http"

	"portfolio/internal/api/handlers"
	"portfolio/internal/core/github"
)

// GetStatusHandler exposes the cache metadata for diagnostics
type GetStatusHandler struct {
	service github.Service
}

// NewGetStatusHandler creates a new cache status handler
func NewGetStatusHandler(service github.Service) *GetStatusHandler {
	return &GetStatusHandler{service: service}
}

// HandleGetStatus returns the last fetch outcome and rate-limit snapshot
// GET /api/github/status
func (h *GetStatusHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	meta, err := h.service.Status(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	handlers.WriteJSON(w, http.StatusOK, meta)
}
