package github

import "context"

// Fetcher retrieves the full repository list from the upstream API.
// Implementations make exactly one request per call and never retry.
type Fetcher interface {
	FetchAll(ctx context.Context) (*FetchResult, error)
}

// Store defines the interface for repository cache persistence.
// Every operation is an independent read or write against durable storage.
type Store interface {
	// IsFresh reports whether at least one active repository was cached within the fresh window.
	IsFresh(ctx context.Context) (bool, error)

	// HasAnyData reports whether at least one active repository was cached within the stale window.
	// Rows older than the stale window do not count even though they are still stored.
	HasAnyData(ctx context.Context) (bool, error)

	// ReadAll returns active repositories ordered by stars descending,
	// then most recent push descending with missing push times last.
	ReadAll(ctx context.Context) ([]*CachedRepo, error)

	// Upsert marks every active repository missing from repos inactive and
	// inserts or overwrites the given repositories as active, atomically.
	Upsert(ctx context.Context, repos []UpstreamRepo) error

	// ReadMetadata returns the singleton cache metadata record.
	ReadMetadata(ctx context.Context) (*CacheMetadata, error)

	// WriteMetadata records the outcome of one refresh attempt.
	WriteMetadata(ctx context.Context, update MetadataUpdate) error
}

// Service serves the GitHub repository list using stale-while-revalidate caching.
type Service interface {
	// GetRepos returns cached repositories, refreshing them in the background
	// when stale or synchronously when nothing usable is cached.
	GetRepos(ctx context.Context) (*ReposResult, error)

	// ReposView is GetRepos mapped to the display shape.
	ReposView(ctx context.Context) (*ReposResponse, error)

	// Status returns the cache diagnostics record.
	Status(ctx context.Context) (*CacheMetadata, error)

	// Wait blocks until all background refreshes launched so far have finished.
	Wait()
}
