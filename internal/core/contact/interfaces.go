package contact

import (
	"context"
	"time"
)

// Repository persists submissions and per-sender attempt counters
type Repository interface {
	// Insert stores a submission and returns its id.
	Insert(ctx context.Context, submission *Submission) (int64, error)

	// CheckRateLimit records an attempt for ipHash and reports whether it is allowed.
	// An expired window is reset; a limited attempt only touches last_attempt.
	CheckRateLimit(ctx context.Context, ipHash string, maxAttempts int, window time.Duration) (bool, error)

	// CleanupRateLimits deletes counters whose window started before cutoff.
	CleanupRateLimits(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier delivers a notification for an accepted submission
type Notifier interface {
	Notify(ctx context.Context, submission *Submission) error
}

// Service handles contact form submissions
type Service interface {
	Submit(ctx context.Context, input Input, info RequestInfo) (*Result, error)
	CleanupRateLimits(ctx context.Context) (int64, error)
}
