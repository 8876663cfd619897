package projects

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"portfolio/internal/api/handlers"
	"portfolio/internal/core/github"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, github.ErrNoCachedData) && github.IsRateLimited(err):
		if reset, ok := github.RateLimitReset(err); ok {
			if wait := time.Until(reset); wait > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			}
		}
		handlers.WriteError(w, http.StatusBadGateway, "RateLimited",
			"GitHub rate limit reached and no cached repositories are available")
	case errors.Is(err, github.ErrNoCachedData):
		log.Printf("ERROR: GitHub repositories unavailable: %v", err)
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamUnavailable",
			"GitHub is unreachable and no cached repositories are available")
	case errors.Is(err, github.ErrMetadataMissing):
		log.Printf("ERROR: GitHub cache metadata missing: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "MetadataMissing",
			"Cache metadata has not been initialized")
	default:
		log.Printf("ERROR: GitHub cache error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An error occurred while reading the repository cache")
	}
}
