package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"portfolio/internal/core/contact"
)

type postgresContactRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(db *sql.DB) contact.Repository {
	return &postgresContactRepo{db: db, now: time.Now}
}

// Insert stores a submission and returns its id
func (r *postgresContactRepo) Insert(ctx context.Context, submission *contact.Submission) (int64, error) {
	status := submission.Status
	if status == "" {
		status = contact.StatusPending
	}

	query := `
		INSERT INTO contact_submissions
			(name, email, subject, message, honeypot_filled, ip_hash, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		submission.Name, submission.Email, submission.Subject, submission.Message,
		submission.HoneypotFilled, submission.IPHash, submission.UserAgent, status,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact submission: %w", err)
	}

	submission.Status = status
	return submission.ID, nil
}

// CheckRateLimit counts an attempt for ipHash inside one transaction.
// The counter row is locked so concurrent attempts from one sender serialize.
func (r *postgresContactRepo) CheckRateLimit(ctx context.Context, ipHash string, maxAttempts int, window time.Duration) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	now := r.now().UTC()

	// A new sender starts at zero attempts; the update below counts this one
	_, err = tx.ExecContext(ctx, `
		INSERT INTO contact_rate_limits (ip_hash, attempt_count, window_start, last_attempt)
		VALUES ($1, 0, $2, $2)
		ON CONFLICT (ip_hash) DO NOTHING`, ipHash, now)
	if err != nil {
		return false, fmt.Errorf("failed to create rate limit record: %w", err)
	}

	var (
		attempts    int
		windowStart time.Time
	)
	err = tx.QueryRowContext(ctx, `
		SELECT attempt_count, window_start
		FROM contact_rate_limits
		WHERE ip_hash = $1
		FOR UPDATE`, ipHash).Scan(&attempts, &windowStart)
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit record: %w", err)
	}

	var (
		update  string
		allowed bool
	)
	switch {
	case windowStart.Before(now.Add(-window)):
		update = `UPDATE contact_rate_limits SET attempt_count = 1, window_start = $2, last_attempt = $2 WHERE ip_hash = $1`
		allowed = true
	case attempts >= maxAttempts:
		update = `UPDATE contact_rate_limits SET last_attempt = $2 WHERE ip_hash = $1`
		allowed = false
	default:
		update = `UPDATE contact_rate_limits SET attempt_count = attempt_count + 1, last_attempt = $2 WHERE ip_hash = $1`
		allowed = true
	}

	if _, err := tx.ExecContext(ctx, update, ipHash, now); err != nil {
		return false, fmt.Errorf("failed to update rate limit record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit rate limit check: %w", err)
	}

	return allowed, nil
}

// CleanupRateLimits deletes counters whose window started before cutoff
func (r *postgresContactRepo) CleanupRateLimits(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_rate_limits WHERE window_start < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up rate limits: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check cleanup result: %w", err)
	}
	return removed, nil
}
