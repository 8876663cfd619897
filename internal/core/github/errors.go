package github

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoCachedData is returned when the cache held nothing usable and the
	// synchronous refresh failed.
	ErrNoCachedData = errors.New("no cached repositories and refresh failed")

	// ErrMetadataMissing is returned when the singleton metadata row does not exist
	ErrMetadataMissing = errors.New("github cache metadata row missing")
)

// FetchErrorKind classifies upstream failures
type FetchErrorKind int

const (
	// KindRequest is a transport-level failure: timeout, DNS, connection reset, bad payload.
	KindRequest FetchErrorKind = iota
	// KindRateLimited is a 403 with an exhausted quota.
	KindRateLimited
	// KindAPI is any other non-2xx response.
	KindAPI
)

func (k FetchErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAPI:
		return "api_error"
	default:
		return "request_failed"
	}
}

// FetchError is returned by the upstream client for every failed call.
type FetchError struct {
	Err        error
	ResetAt    *time.Time
	Body       string
	Kind       FetchErrorKind
	StatusCode int
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindRateLimited:
		if e.ResetAt != nil {
			return fmt.Sprintf("GitHub rate limited, resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
		}
		return "GitHub rate limited, reset time unknown"
	case KindAPI:
		return fmt.Sprintf("GitHub API error: %d - %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("GitHub request failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is an upstream quota exhaustion.
func IsRateLimited(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.Kind == KindRateLimited
}

// RateLimitReset returns the quota reset time carried by a rate-limit error.
func RateLimitReset(err error) (time.Time, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.Kind == KindRateLimited && fetchErr.ResetAt != nil {
		return *fetchErr.ResetAt, true
	}
	return time.Time{}, false
}
