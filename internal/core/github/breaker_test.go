package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := newFakeClock()
	cb := newCircuitBreaker(3, 5*time.Minute, clock.Now)
	upstreamErr := &FetchError{Kind: KindAPI, StatusCode: 502, Body: "bad gateway"}

	for i := 0; i < 2; i++ {
		require.NoError(t, cb.canAttempt())
		cb.recordFailure(upstreamErr)
	}
	require.NoError(t, cb.canAttempt(), "two failures should not open the circuit")

	cb.recordFailure(upstreamErr)
	err := cb.canAttempt()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenAfterCooldown(t *testing.T) {
	clock := newFakeClock()
	cb := newCircuitBreaker(1, 5*time.Minute, clock.Now)

	cb.recordFailure(errors.New("connection reset"))
	require.ErrorIs(t, cb.canAttempt(), ErrCircuitOpen)

	clock.Advance(5 * time.Minute)
	require.NoError(t, cb.canAttempt())
	assert.Equal(t, stateHalfOpen, cb.state)

	// a failed trial reopens immediately
	cb.recordFailure(errors.New("connection reset"))
	require.ErrorIs(t, cb.canAttempt(), ErrCircuitOpen)

	clock.Advance(5 * time.Minute)
	require.NoError(t, cb.canAttempt())
	cb.recordSuccess()
	assert.Equal(t, stateClosed, cb.state)
	assert.Equal(t, 0, cb.failures)
}

func TestCircuitBreaker_RateLimitOpensUntilReset(t *testing.T) {
	clock := newFakeClock()
	cb := newCircuitBreaker(3, 5*time.Minute, clock.Now)

	reset := clock.Now().Add(20 * time.Minute)
	rateErr := &FetchError{Kind: KindRateLimited, StatusCode: 403, ResetAt: &reset}
	cb.recordFailure(rateErr)

	err := cb.canAttempt()
	require.Error(t, err)
	assert.True(t, IsRateLimited(err), "open circuit should replay the rate-limit error")
	got, ok := RateLimitReset(err)
	require.True(t, ok)
	assert.Equal(t, reset, got)

	clock.Advance(10 * time.Minute)
	require.Error(t, cb.canAttempt())

	clock.Advance(10 * time.Minute)
	require.NoError(t, cb.canAttempt())
}

func TestService_CircuitBreaker_SkipsBackgroundRefresh(t *testing.T) {
	clock := newFakeClock()
	store := newMemoryStore(clock)
	require.NoError(t, store.Upsert(context.Background(), testRepos(1)))
	fetcher := &mockFetcher{err: &FetchError{Kind: KindAPI, StatusCode: 500, Body: "boom"}}
	svc := newTestService(store, fetcher, clock, WithCircuitBreaker(2, time.Minute))

	clock.Advance(10 * time.Minute)
	for i := 0; i < 3; i++ {
		result, err := svc.GetRepos(context.Background())
		require.NoError(t, err)
		assert.True(t, result.IsStale)
		svc.Wait()
	}
	assert.Equal(t, 2, fetcher.callCount(), "open circuit must not call upstream")

	meta, err := store.ReadMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, meta.FetchErrorCount, "skipped attempts are not recorded")

	clock.Advance(time.Minute)
	fetcher.set(fetchResult(1, 2), nil)

	_, err = svc.GetRepos(context.Background())
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 3, fetcher.callCount())
	assert.Equal(t, 2, store.activeCount())
}

func TestService_CircuitBreaker_EmptyCacheStillRefreshes(t *testing.T) {
	clock := newFakeClock()
	store := newMemoryStore(clock)
	fetcher := &mockFetcher{err: &FetchError{Kind: KindAPI, StatusCode: 500, Body: "boom"}}
	svc := newTestService(store, fetcher, clock, WithCircuitBreaker(1, 5*time.Minute))

	_, err := svc.GetRepos(context.Background())
	require.ErrorIs(t, err, ErrNoCachedData)

	fetcher.set(fetchResult(1, 2), nil)

	result, err := svc.GetRepos(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Repos, 2)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestService_CircuitBreaker_RateLimitedSurfacesResetTime(t *testing.T) {
	clock := newFakeClock()
	store := newMemoryStore(clock)
	reset := clock.Now().Add(30 * time.Minute)
	fetcher := &mockFetcher{err: &FetchError{Kind: KindRateLimited, StatusCode: 403, ResetAt: &reset}}
	svc := newTestService(store, fetcher, clock, WithCircuitBreaker(3, time.Minute))

	_, err := svc.GetRepos(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	_, err = svc.GetRepos(context.Background())
	require.ErrorIs(t, err, ErrNoCachedData)
	assert.True(t, IsRateLimited(err))
	got, ok := RateLimitReset(err)
	require.True(t, ok)
	assert.Equal(t, reset, got)
	assert.Equal(t, 1, fetcher.callCount())
}
