package contact

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig holds the mail relay settings
type SMTPConfig struct {
	Host     string
	User     string
	Password string
	From     string
	To       string
	Port     int
}

type smtpNotifier struct {
	send func(ctx context.Context, msg []byte) error
	cfg  SMTPConfig
}

// NewSMTPNotifier creates a notifier that relays through an SMTP server with STARTTLS.
// Host, user and password are required.
func NewSMTPNotifier(cfg SMTPConfig) (Notifier, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, ErrNotifierNotConfigured
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	n := &smtpNotifier{cfg: cfg}
	n.send = n.relay
	return n, nil
}

// Notify emails the site owner, with reply-to set to the sender
func (n *smtpNotifier) Notify(ctx context.Context, submission *Submission) error {
	msg, err := buildMessage(n.cfg, submission, time.Now())
	if err != nil {
		return err
	}
	return n.send(ctx, msg)
}

func (n *smtpNotifier) relay(ctx context.Context, msg []byte) error {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("smtp starttls failed: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(n.cfg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA rejected: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}

func buildMessage(cfg SMTPConfig, submission *Submission, now time.Time) ([]byte, error) {
	if strings.ContainsAny(submission.Email, "\r\n") || strings.ContainsAny(submission.Name, "\r\n") {
		return nil, fmt.Errorf("refusing to build message with line breaks in headers")
	}

	subject := "New message from portfolio"
	bodySubject := "(no subject)"
	if submission.Subject != nil && *submission.Subject != "" {
		subject = stripLineBreaks(*submission.Subject)
		bodySubject = *submission.Subject
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", cfg.To)
	fmt.Fprintf(&buf, "Reply-To: %s\r\n", submission.Email)
	fmt.Fprintf(&buf, "Subject: [Portfolio Contact] %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString("New contact form submission from your portfolio:\r\n\r\n")
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", submission.Name, submission.Email)
	fmt.Fprintf(&buf, "Subject: %s\r\n\r\n", bodySubject)
	buf.WriteString("Message:\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(submission.Message, "\r\n", "\n"), "\n", "\r\n"))
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
