package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "github-repos"

// service implements the Service interface
type service struct {
	store            Store
	fetcher          Fetcher
	now              func() time.Time
	group            singleflight.Group
	wg               sync.WaitGroup
	breaker          *circuitBreaker
	refreshTimeout   time.Duration
	breakerCooldown  time.Duration
	breakerThreshold int
	dedupe           bool
}

// NewService creates the stale-while-revalidate orchestrator.
// The service holds no cached state; every call re-reads the store.
func NewService(store Store, fetcher Fetcher, opts ...ServiceOption) Service {
	if store == nil {
		panic("github: store cannot be nil")
	}
	if fetcher == nil {
		panic("github: fetcher cannot be nil")
	}

	s := &service{
		store:           store,
		fetcher:         fetcher,
		now:             time.Now,
		refreshTimeout:  30 * time.Second,
		breakerCooldown: 5 * time.Minute,
		dedupe:          true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.breakerThreshold > 0 {
		s.breaker = newCircuitBreaker(s.breakerThreshold, s.breakerCooldown, s.now)
	}

	return s
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithRefreshTimeout bounds a background refresh, store writes included
func WithRefreshTimeout(timeout time.Duration) ServiceOption {
	return func(s *service) {
		s.refreshTimeout = timeout
	}
}

// WithRefreshDedupe controls whether overlapping background refreshes share one upstream call
func WithRefreshDedupe(enabled bool) ServiceOption {
	return func(s *service) {
		s.dedupe = enabled
	}
}

// WithCircuitBreaker suspends upstream calls for cooldown after threshold
// consecutive failures. A threshold of zero or less disables it.
func WithCircuitBreaker(threshold int, cooldown time.Duration) ServiceOption {
	return func(s *service) {
		s.breakerThreshold = threshold
		s.breakerCooldown = cooldown
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

// GetRepos evaluates fresh, stale-usable and empty in that order.
func (s *service) GetRepos(ctx context.Context) (*ReposResult, error) {
	fresh, err := s.store.IsFresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check cache freshness: %w", err)
	}
	if fresh {
		return s.readCached(ctx, false)
	}

	hasData, err := s.store.HasAnyData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check cached data: %w", err)
	}
	if hasData {
		result, err := s.readCached(ctx, true)
		if err != nil {
			return nil, err
		}
		s.refreshInBackground(ctx)
		return result, nil
	}

	log.Printf("[GITHUB] Cache empty, refreshing synchronously")
	if err := s.refresh(ctx, true); err != nil {
		// store failures are not an upstream outage
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fmt.Errorf("%w: %w", ErrNoCachedData, err)
		}
		return nil, err
	}

	repos, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories after refresh: %w", err)
	}

	now := s.now().UTC()
	return &ReposResult{Repos: repos, IsStale: false, LastUpdated: &now}, nil
}

// ReposView maps GetRepos to the display shape
func (s *service) ReposView(ctx context.Context) (*ReposResponse, error) {
	result, err := s.GetRepos(ctx)
	if err != nil {
		return nil, err
	}
	return ToResponse(result), nil
}

// Status returns the cache metadata
func (s *service) Status(ctx context.Context) (*CacheMetadata, error) {
	meta, err := s.store.ReadMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache metadata: %w", err)
	}
	return meta, nil
}

// Wait blocks until in-flight background refreshes finish
func (s *service) Wait() {
	s.wg.Wait()
}

func (s *service) readCached(ctx context.Context, stale bool) (*ReposResult, error) {
	repos, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached repositories: %w", err)
	}

	result := &ReposResult{Repos: repos, IsStale: stale}

	// metadata only decorates the response
	meta, err := s.store.ReadMetadata(ctx)
	if err != nil {
		log.Printf("[GITHUB] Warning: failed to read cache metadata: %v", err)
	} else if meta != nil {
		result.LastUpdated = meta.LastSuccessfulFetch
	}

	return result, nil
}

// refreshInBackground launches a refresh detached from the caller's
// cancellation. Its outcome only reaches metadata and logs.
func (s *service) refreshInBackground(parent context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[GITHUB] Background refresh panicked: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.refreshTimeout)
		defer cancel()

		var err error
		if s.dedupe {
			var shared bool
			_, err, shared = s.group.Do(refreshKey, func() (interface{}, error) {
				return nil, s.refresh(ctx, false)
			})
			if shared {
				log.Printf("[GITHUB] Background refresh joined an in-flight refresh")
			}
		} else {
			err = s.refresh(ctx, false)
		}

		if err != nil {
			log.Printf("[GITHUB] Background refresh failed: %v", err)
		}
	}()
}

// refresh fetches upstream, rewrites the cache and records the attempt.
// A synchronous refresh runs on the caller's context: it goes through an open
// breaker unless the upstream reported a rate limit, and a failure caused by
// the caller going away is neither counted nor recorded.
func (s *service) refresh(ctx context.Context, synchronous bool) error {
	if s.breaker != nil {
		if err := s.breaker.canAttempt(); err != nil {
			if !synchronous || IsRateLimited(err) {
				log.Printf("[GITHUB] Refresh skipped: %v", err)
				return err
			}
			log.Printf("[GITHUB] Cache empty, trying upstream despite open circuit: %v", err)
		}
	}

	result, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		if synchronous && ctx.Err() != nil {
			log.Printf("[GITHUB] Refresh abandoned, caller went away: %v", err)
			return err
		}
		if s.breaker != nil {
			s.breaker.recordFailure(err)
		}
		if IsRateLimited(err) {
			log.Printf("[GITHUB] Refresh skipped, upstream quota exhausted: %v", err)
		} else {
			log.Printf("[GITHUB] Refresh failed, upstream error: %v", err)
		}

		msg := err.Error()
		if metaErr := s.store.WriteMetadata(ctx, MetadataUpdate{Success: false, ErrorMessage: &msg}); metaErr != nil {
			log.Printf("[GITHUB] Warning: failed to record fetch failure: %v", metaErr)
		}
		return err
	}
	if s.breaker != nil {
		s.breaker.recordSuccess()
	}

	if err := s.store.Upsert(ctx, result.Repos); err != nil {
		return fmt.Errorf("failed to update repository cache: %w", err)
	}

	rateLimit := result.RateLimit
	if metaErr := s.store.WriteMetadata(ctx, MetadataUpdate{Success: true, RateLimit: &rateLimit}); metaErr != nil {
		log.Printf("[GITHUB] Warning: failed to record fetch success: %v", metaErr)
	}

	log.Printf("[GITHUB] Cache refreshed: %d repositories (rate limit remaining: %s)",
		len(result.Repos), formatRemaining(rateLimit.Remaining))

	return nil
}

func formatRemaining(remaining *int) string {
	if remaining == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *remaining)
}
