package contact

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     "smtp.example.com",
		User:     "mailer",
		Password: "secret",
		From:     "noreply@example.com",
		To:       "owner@example.com",
	}
}

func TestNewSMTPNotifier_RequiresCredentials(t *testing.T) {
	_, err := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.com"})
	assert.ErrorIs(t, err, ErrNotifierNotConfigured)

	n, err := NewSMTPNotifier(testSMTPConfig())
	require.NoError(t, err)
	assert.Equal(t, 587, n.(*smtpNotifier).cfg.Port)
}

func TestSMTPNotifier_Notify_BuildsMessage(t *testing.T) {
	n, err := NewSMTPNotifier(testSMTPConfig())
	require.NoError(t, err)

	var sent []byte
	n.(*smtpNotifier).send = func(ctx context.Context, msg []byte) error {
		sent = msg
		return nil
	}

	subject := "Collab?"
	err = n.Notify(context.Background(), &Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: &subject,
		Message: "line one\nline two",
	})
	require.NoError(t, err)

	msg := string(sent)
	assert.Contains(t, msg, "From: noreply@example.com\r\n")
	assert.Contains(t, msg, "To: owner@example.com\r\n")
	assert.Contains(t, msg, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, msg, "Subject: [Portfolio Contact] Collab?\r\n")
	assert.Contains(t, msg, "From: Ada <ada@example.com>\r\n")
	assert.Contains(t, msg, "line one\r\nline two\r\n")
}

func TestBuildMessage_DefaultsAndInjection(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	msg, err := buildMessage(testSMTPConfig(), &Submission{Name: "Ada", Email: "ada@example.com", Message: "hi"}, now)
	require.NoError(t, err)
	assert.Contains(t, string(msg), "Subject: [Portfolio Contact] New message from portfolio\r\n")
	assert.Contains(t, string(msg), "Subject: (no subject)\r\n")

	subject := "hi\r\nBcc: victim@example.com"
	msg, err = buildMessage(testSMTPConfig(), &Submission{Name: "Ada", Email: "ada@example.com", Subject: &subject, Message: "hi"}, now)
	require.NoError(t, err)
	headers := strings.SplitN(string(msg), "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")

	_, err = buildMessage(testSMTPConfig(), &Submission{Name: "Ada", Email: "ada@example.com\r\nBcc: x@y.z", Message: "hi"}, now)
	assert.Error(t, err)
}
