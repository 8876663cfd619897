package routes

import (
	"github.com/go-chi/chi/v5"

	"portfolio/internal/core/github"
	"portfolio/internal/web"
)

// RegisterWebRoutes registers the HTML pages and the preferences form.
func RegisterWebRoutes(r chi.Router, githubService github.Service, prefs *web.PreferenceStore) {
	templates, err := web.NewTemplates()
	if err != nil {
		panic("failed to load web templates: " + err.Error())
	}

	handlers := web.NewHandlers(templates, githubService, prefs)

	r.Get("/", handlers.HomeHandler)
	r.Get("/projects", handlers.ProjectsHandler)
	r.Get("/blog", handlers.BlogHandler)
	r.Get("/blog/{slug}", handlers.BlogPostHandler)
	r.Post("/preferences", handlers.PreferencesHandler)
}
