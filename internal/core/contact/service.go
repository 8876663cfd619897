package contact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"
)

type service struct {
	repo        Repository
	notifier    Notifier
	now         func() time.Time
	salt        string
	maxAttempts int
	window      time.Duration
	cleanupAge  time.Duration
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithNotifier sends an email (or anything else) for each accepted submission
func WithNotifier(n Notifier) ServiceOption {
	return func(s *service) {
		s.notifier = n
	}
}

// WithRateLimit overrides the per-sender attempt budget
func WithRateLimit(maxAttempts int, window time.Duration) ServiceOption {
	return func(s *service) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if window > 0 {
			s.window = window
		}
	}
}

// WithServiceClock overrides the time source
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates the contact form service.
// Sender IPs are never stored; only a salted hash is.
func NewService(repo Repository, salt string, opts ...ServiceOption) Service {
	if repo == nil {
		panic("contact: repository cannot be nil")
	}

	s := &service{
		repo:        repo,
		salt:        salt,
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
		window:      DefaultWindow,
		cleanupAge:  DefaultCleanupAge,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit validates, rate limits, stores and notifies.
// Rejections are reported through the Result; only storage failures return an error.
func (s *service) Submit(ctx context.Context, input Input, info RequestInfo) (*Result, error) {
	ipHash := HashIP(info.ClientIP, s.salt)
	userAgent := optional(info.UserAgent)

	// Bots get the same answer as people
	if input.Website != "" {
		flagged := &Submission{
			Name:           input.Name,
			Email:          input.Email,
			Subject:        optional(input.Subject),
			Message:        input.Message,
			HoneypotFilled: true,
			IPHash:         &ipHash,
			UserAgent:      userAgent,
			Status:         StatusPending,
		}
		if _, err := s.repo.Insert(ctx, flagged); err != nil {
			log.Printf("[CONTACT] Warning: failed to store honeypot submission: %v", err)
		}
		return &Result{Success: true, MessageKey: KeySuccess}, nil
	}

	name, email, subject, message, key := validate(input)
	if key != "" {
		return &Result{Success: false, MessageKey: key}, nil
	}

	allowed, err := s.repo.CheckRateLimit(ctx, ipHash, s.maxAttempts, s.window)
	if err != nil {
		log.Printf("[CONTACT] Rate limit check failed: %v", err)
		return nil, fmt.Errorf("%w: rate limit check: %w", ErrStorage, err)
	}
	if !allowed {
		return &Result{Success: false, MessageKey: KeyErrorRateLimit}, nil
	}

	submission := &Submission{
		Name:      name,
		Email:     email,
		Subject:   optional(subject),
		Message:   message,
		IPHash:    &ipHash,
		UserAgent: userAgent,
		Status:    StatusPending,
	}

	id, err := s.repo.Insert(ctx, submission)
	if err != nil {
		log.Printf("[CONTACT] Failed to store submission: %v", err)
		return nil, fmt.Errorf("%w: insert: %w", ErrStorage, err)
	}
	submission.ID = id

	if s.notifier == nil {
		log.Printf("[CONTACT] Email not configured, skipping notification for submission %d", id)
	} else if err := s.notifier.Notify(ctx, submission); err != nil {
		// the message is saved; the email is a bonus
		log.Printf("[CONTACT] Failed to send notification for submission %d: %v", id, err)
	}

	return &Result{Success: true, MessageKey: KeySuccess}, nil
}

// CleanupRateLimits removes counters older than a day
func (s *service) CleanupRateLimits(ctx context.Context) (int64, error) {
	removed, err := s.repo.CleanupRateLimits(ctx, s.now().Add(-s.cleanupAge))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up contact rate limits: %w", err)
	}
	return removed, nil
}

// validate trims the fields and returns the first failing message key, if any
func validate(input Input) (name, email, subject, message, key string) {
	name = strings.TrimSpace(input.Name)
	email = strings.TrimSpace(input.Email)
	subject = strings.TrimSpace(input.Subject)
	message = strings.TrimSpace(input.Message)

	switch {
	case name == "" || len(name) > maxNameLength:
		key = KeyErrorName
	// CR/LF would allow header injection in the notification
	case email == "" || !strings.Contains(email, "@") || len(email) > maxEmailLength ||
		strings.ContainsAny(email, "\r\n"):
		key = KeyErrorEmail
	case message == "" || len(message) > maxMessageLength:
		key = KeyErrorMessage
	case len(subject) > maxSubjectLength:
		key = KeyErrorSubject
	}

	return name, email, subject, message, key
}

// HashIP returns the hex SHA-256 of ip followed by salt
func HashIP(ip, salt string) string {
	if ip == "" {
		ip = unknownIP
	}
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
