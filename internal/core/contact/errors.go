package contact

import "errors"

var (
	// ErrStorage is returned when a submission or rate-limit check could not be persisted
	ErrStorage = errors.New("contact storage failure")

	// ErrNotifierNotConfigured is returned by NewSMTPNotifier when required settings are missing
	ErrNotifierNotConfigured = errors.New("smtp notifier not configured")
)
