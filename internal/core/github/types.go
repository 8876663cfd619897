package github

import "time"

// UpstreamRepo is a repository as returned by the GitHub API, after fork filtering.
type UpstreamRepo struct {
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	PushedAt    *time.Time
	Description *string
	Language    *string
	Name        string
	FullName    string
	HTMLURL     string
	Topics      []string
	GitHubID    int64
	Stars       int
	Forks       int
	OpenIssues  int
}

// CachedRepo is one row of the repository cache.
// Exactly one row exists per GitHubID; inactive rows are kept but never read.
type CachedRepo struct {
	CachedAt  time.Time
	ExpiresAt time.Time
	UpstreamRepo
	IsActive bool
}

// RateLimitSnapshot mirrors the last observed X-RateLimit-* response headers.
// Fields are nil when the header was absent or unparseable.
type RateLimitSnapshot struct {
	Remaining *int
	Reset     *time.Time
}

// FetchResult is the outcome of a successful upstream call
type FetchResult struct {
	Repos     []UpstreamRepo
	RateLimit RateLimitSnapshot
}

// CacheMetadata is the singleton diagnostics record for the repository cache.
type CacheMetadata struct {
	LastSuccessfulFetch *time.Time `json:"lastSuccessfulFetch,omitempty"`
	LastFetchAttempt    *time.Time `json:"lastFetchAttempt,omitempty"`
	LastErrorMessage    *string    `json:"lastErrorMessage,omitempty"`
	RateLimitRemaining  *int       `json:"rateLimitRemaining,omitempty"`
	RateLimitReset      *time.Time `json:"rateLimitReset,omitempty"`
	FetchErrorCount     int        `json:"fetchErrorCount"`
}

// MetadataUpdate describes the result of one refresh attempt.
// RateLimit is nil when the attempt produced no rate-limit observation; the
// stored rate-limit fields are then left untouched.
type MetadataUpdate struct {
	ErrorMessage *string
	RateLimit    *RateLimitSnapshot
	Success      bool
}

// ReposResult is what the orchestrator hands back for one read.
type ReposResult struct {
	LastUpdated *time.Time
	Repos       []*CachedRepo
	IsStale     bool
}

// RepoDisplay is the caller-facing shape of a cached repository
type RepoDisplay struct {
	Description *string  `json:"description,omitempty"`
	Language    *string  `json:"language,omitempty"`
	UpdatedAt   *string  `json:"updated_at,omitempty"`
	Name        string   `json:"name"`
	HTMLURL     string   `json:"html_url"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
}

// ReposResponse is the serializable read-through result
type ReposResponse struct {
	LastUpdated *string       `json:"last_updated,omitempty"`
	Repos       []RepoDisplay `json:"repos"`
	IsStale     bool          `json:"is_stale"`
}
