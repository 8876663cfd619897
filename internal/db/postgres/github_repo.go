package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"portfolio/internal/core/github"

	"github.com/lib/pq"
)

const (
	// DefaultFreshWindow is how long a cached listing is served without a refresh
	DefaultFreshWindow = 5 * time.Minute
	// DefaultStaleWindow is how long a cached listing may be served while refreshing
	DefaultStaleWindow = 60 * time.Minute

	// upsertLockKey is the transaction-scoped advisory lock serializing cache rewrites
	upsertLockKey = 0x67686361636865
)

type postgresGithubCacheRepo struct {
	db          *sql.DB
	now         func() time.Time
	freshWindow time.Duration
	staleWindow time.Duration
}

// NewGithubCacheRepository creates the PostgreSQL-backed repository cache.
// Non-positive windows fall back to the defaults.
func NewGithubCacheRepository(db *sql.DB, freshWindow, staleWindow time.Duration) github.Store {
	if freshWindow <= 0 {
		freshWindow = DefaultFreshWindow
	}
	if staleWindow <= 0 {
		staleWindow = DefaultStaleWindow
	}
	return &postgresGithubCacheRepo{
		db:          db,
		now:         time.Now,
		freshWindow: freshWindow,
		staleWindow: staleWindow,
	}
}

// IsFresh reports whether any active row was cached within the fresh window
func (r *postgresGithubCacheRepo) IsFresh(ctx context.Context) (bool, error) {
	return r.anyActiveSince(ctx, r.now().Add(-r.freshWindow))
}

// HasAnyData reports whether any active row was cached within the stale window
func (r *postgresGithubCacheRepo) HasAnyData(ctx context.Context) (bool, error) {
	return r.anyActiveSince(ctx, r.now().Add(-r.staleWindow))
}

func (r *postgresGithubCacheRepo) anyActiveSince(ctx context.Context, cutoff time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM github_repos_cache
			WHERE is_active = TRUE AND cached_at > $1
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, cutoff).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check github cache age: %w", err)
	}
	return exists, nil
}

// ReadAll returns active rows, most starred first, ties broken by most recent push
func (r *postgresGithubCacheRepo) ReadAll(ctx context.Context) ([]*github.CachedRepo, error) {
	query := `
		SELECT github_id, name, full_name, description, html_url, language,
		       stargazers_count, forks_count, open_issues_count, topics,
		       github_created_at, github_updated_at, github_pushed_at,
		       cached_at, expires_at, is_active
		FROM github_repos_cache
		WHERE is_active = TRUE
		ORDER BY stargazers_count DESC, github_pushed_at DESC NULLS LAST
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached repositories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Printf("Failed to close rows: %v", closeErr)
		}
	}()

	var result []*github.CachedRepo
	for rows.Next() {
		repo, err := scanCachedRepo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached repositories: %w", err)
	}

	return result, nil
}

func scanCachedRepo(rows *sql.Rows) (*github.CachedRepo, error) {
	var (
		repo                           github.CachedRepo
		description, language          sql.NullString
		topicsJSON                     []byte
		createdAt, updatedAt, pushedAt sql.NullTime
	)

	err := rows.Scan(
		&repo.GitHubID, &repo.Name, &repo.FullName, &description, &repo.HTMLURL, &language,
		&repo.Stars, &repo.Forks, &repo.OpenIssues, &topicsJSON,
		&createdAt, &updatedAt, &pushedAt,
		&repo.CachedAt, &repo.ExpiresAt, &repo.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached repository: %w", err)
	}

	repo.Topics = []string{}
	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &repo.Topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics for %d: %w", repo.GitHubID, err)
		}
	}

	repo.Description = nullStringPtr(description)
	repo.Language = nullStringPtr(language)
	repo.CreatedAt = nullTimePtr(createdAt)
	repo.UpdatedAt = nullTimePtr(updatedAt)
	repo.PushedAt = nullTimePtr(pushedAt)

	return &repo, nil
}

// Upsert replaces the active set in one transaction: rows missing from repos
// are deactivated, the rest are inserted or overwritten with a new cached_at.
// Concurrent calls run one after the other, so the last to commit wins.
func (r *postgresGithubCacheRepo) Upsert(ctx context.Context, repos []github.UpstreamRepo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	// Overlapping rewrites would otherwise lock rows in different orders and deadlock
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", int64(upsertLockKey)); err != nil {
		return fmt.Errorf("failed to lock repository cache: %w", err)
	}

	ids := make([]int64, 0, len(repos))
	for _, repo := range repos {
		ids = append(ids, repo.GitHubID)
	}

	deactivate := `
		UPDATE github_repos_cache
		SET is_active = FALSE
		WHERE is_active = TRUE AND github_id <> ALL($1::bigint[])
	`
	if _, err := tx.ExecContext(ctx, deactivate, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to deactivate missing repositories: %w", err)
	}

	upsert := `
		INSERT INTO github_repos_cache (
			github_id, name, full_name, description, html_url, language,
			stargazers_count, forks_count, open_issues_count, topics,
			github_created_at, github_updated_at, github_pushed_at,
			cached_at, expires_at, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, TRUE
		)
		ON CONFLICT (github_id) DO UPDATE
		SET name = EXCLUDED.name,
		    full_name = EXCLUDED.full_name,
		    description = EXCLUDED.description,
		    html_url = EXCLUDED.html_url,
		    language = EXCLUDED.language,
		    stargazers_count = EXCLUDED.stargazers_count,
		    forks_count = EXCLUDED.forks_count,
		    open_issues_count = EXCLUDED.open_issues_count,
		    topics = EXCLUDED.topics,
		    github_created_at = EXCLUDED.github_created_at,
		    github_updated_at = EXCLUDED.github_updated_at,
		    github_pushed_at = EXCLUDED.github_pushed_at,
		    cached_at = EXCLUDED.cached_at,
		    expires_at = EXCLUDED.expires_at,
		    is_active = TRUE
	`
	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("failed to prepare repository upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := r.now().UTC()
	expiresAt := now.Add(r.freshWindow)

	for _, repo := range repos {
		topics := repo.Topics
		if topics == nil {
			topics = []string{}
		}
		topicsJSON, err := json.Marshal(topics)
		if err != nil {
			return fmt.Errorf("failed to marshal topics for %d: %w", repo.GitHubID, err)
		}

		_, err = stmt.ExecContext(ctx,
			repo.GitHubID, repo.Name, repo.FullName, repo.Description, repo.HTMLURL, repo.Language,
			repo.Stars, repo.Forks, repo.OpenIssues, string(topicsJSON),
			repo.CreatedAt, repo.UpdatedAt, repo.PushedAt,
			now, expiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert repository %s: %w", repo.FullName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit repository cache: %w", err)
	}

	return nil
}

// ReadMetadata returns the singleton metadata row
func (r *postgresGithubCacheRepo) ReadMetadata(ctx context.Context) (*github.CacheMetadata, error) {
	query := `
		SELECT last_successful_fetch, last_fetch_attempt, last_error_message,
		       rate_limit_remaining, rate_limit_reset, fetch_error_count
		FROM github_cache_metadata
		WHERE id = 1
	`

	var (
		meta                     github.CacheMetadata
		lastSuccess, lastAttempt sql.NullTime
		errorMessage             sql.NullString
		remaining                sql.NullInt64
		resetAt                  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&lastSuccess, &lastAttempt, &errorMessage,
		&remaining, &resetAt, &meta.FetchErrorCount,
	)
	if err == sql.ErrNoRows {
		return nil, github.ErrMetadataMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read github cache metadata: %w", err)
	}

	meta.LastSuccessfulFetch = nullTimePtr(lastSuccess)
	meta.LastFetchAttempt = nullTimePtr(lastAttempt)
	meta.LastErrorMessage = nullStringPtr(errorMessage)
	meta.RateLimitReset = nullTimePtr(resetAt)
	if remaining.Valid {
		v := int(remaining.Int64)
		meta.RateLimitRemaining = &v
	}

	return &meta, nil
}

// WriteMetadata records the outcome of one refresh attempt.
// Rate-limit columns are only touched when the update carries a snapshot.
func (r *postgresGithubCacheRepo) WriteMetadata(ctx context.Context, update github.MetadataUpdate) error {
	now := r.now().UTC()

	var (
		query string
		args  []interface{}
	)

	switch {
	case update.Success && update.RateLimit != nil:
		query = `
			UPDATE github_cache_metadata
			SET last_successful_fetch = $1,
			    last_fetch_attempt = $1,
			    fetch_error_count = 0,
			    last_error_message = NULL,
			    rate_limit_remaining = $2,
			    rate_limit_reset = $3
			WHERE id = 1
		`
		args = []interface{}{now, update.RateLimit.Remaining, update.RateLimit.Reset}
	case update.Success:
		query = `
			UPDATE github_cache_metadata
			SET last_successful_fetch = $1,
			    last_fetch_attempt = $1,
			    fetch_error_count = 0,
			    last_error_message = NULL
			WHERE id = 1
		`
		args = []interface{}{now}
	case update.RateLimit != nil:
		query = `
			UPDATE github_cache_metadata
			SET last_fetch_attempt = $1,
			    fetch_error_count = fetch_error_count + 1,
			    last_error_message = $2,
			    rate_limit_remaining = $3,
			    rate_limit_reset = $4
			WHERE id = 1
		`
		args = []interface{}{now, update.ErrorMessage, update.RateLimit.Remaining, update.RateLimit.Reset}
	default:
		query = `
			UPDATE github_cache_metadata
			SET last_fetch_attempt = $1,
			    fetch_error_count = fetch_error_count + 1,
			    last_error_message = $2
			WHERE id = 1
		`
		args = []interface{}{now, update.ErrorMessage}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write github cache metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check metadata update result: %w", err)
	}
	if rowsAffected == 0 {
		return github.ErrMetadataMissing
	}

	return nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
