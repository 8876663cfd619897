package routes

import (
	"portfolio/internal/api/handlers/projects"
	"portfolio/internal/core/github"

	"github.com/go-chi/chi/v5"
)

// RegisterProjectsRoutes registers the GitHub repository cache endpoints
//
// Both endpoints are public and read from Postgres; only an empty or expired
// cache reaches GitHub synchronously.
func RegisterProjectsRoutes(r chi.Router, githubService github.Service) {
	getReposHandler := projects.NewGetReposHandler(githubService)
	getStatusHandler := projects.NewGetStatusHandler(githubService)

	// GET /api/github/repos
	r.Get("/api/github/repos", getReposHandler.HandleGetRepos)

	// GET /api/github/status
	r.Get("/api/github/status", getStatusHandler.HandleGetStatus)
}
