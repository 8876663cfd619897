package contact

import "time"

// Message keys returned to the caller; the page translates them.
const (
	KeySuccess        = "contact_success"
	KeyErrorName      = "contact_error_name"
	KeyErrorEmail     = "contact_error_email"
	KeyErrorMessage   = "contact_error_message"
	KeyErrorSubject   = "contact_error_subject"
	KeyErrorRateLimit = "contact_error_rate_limit"
)

const (
	maxNameLength    = 255
	maxEmailLength   = 255
	maxMessageLength = 5000
	maxSubjectLength = 500
)

// Rate limiting defaults
const (
	DefaultMaxAttempts = 3
	DefaultWindow      = 60 * time.Minute
	DefaultCleanupAge  = 24 * time.Hour
)

const (
	// StatusPending is the status of a newly stored submission
	StatusPending = "pending"

	unknownIP = "unknown"
)

// Input is the raw form as submitted. Website is a honeypot field.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Website string `json:"website"`
}

// RequestInfo carries what the transport knows about the sender
type RequestInfo struct {
	ClientIP  string
	UserAgent string
}

// Result is what the form shows back: a success flag and a translatable key
type Result struct {
	MessageKey string `json:"message_key"`
	Success    bool   `json:"success"`
}

// Submission is a stored contact message
type Submission struct {
	CreatedAt      time.Time
	Subject        *string
	IPHash         *string
	UserAgent      *string
	Name           string
	Email          string
	Message        string
	Status         string
	ID             int64
	HoneypotFilled bool
}
