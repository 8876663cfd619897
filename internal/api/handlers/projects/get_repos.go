package projects

import (
	"net/http"

	"portfolio/internal/api/handlers"
	"portfolio/internal/core/github"
)

// GetReposHandler serves the cached repository listing
type GetReposHandler struct {
	service github.Service
}

// NewGetReposHandler creates a new repository listing handler
func NewGetReposHandler(service github.Service) *GetReposHandler {
	return &GetReposHandler{service: service}
}

// HandleGetRepos returns the display listing
// GET /api/github/repos
func (h *GetReposHandler) HandleGetRepos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response, err := h.service.ReposView(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if response.IsStale {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}
	handlers.WriteJSON(w, http.StatusOK, response)
}
