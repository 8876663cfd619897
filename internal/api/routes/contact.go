package routes

import (
	"portfolio/internal/api/handlers/contact"
	contactCore "portfolio/internal/core/contact"

	"github.com/go-chi/chi/v5"
)

// RegisterContactRoutes registers the contact form endpoint
//
// The service applies its own per-sender budget (3 per hour by default) on top
// of the global per-IP limiter.
func RegisterContactRoutes(r chi.Router, contactService contactCore.Service) {
	submitHandler := contact.NewSubmitHandler(contactService)

	// POST /api/contact
	r.Post("/api/contact", submitHandler.HandleSubmit)
}
