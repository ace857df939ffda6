package notify

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

// EmailConfig holds SMTP configuration for the email channel.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	Sender     string
	Password   string
	Recipient  string
}

// EmailSender delivers the report as a single HTML message over an
// authenticated SMTP session, regardless of how the chat channels chunk it.
type EmailSender struct {
	cfg EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send dials the SMTP server and delivers one message with the report's
// subject and HTML body.
func (s *EmailSender) Send(ctx context.Context, r Report) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", s.cfg.Recipient)
	m.SetHeader("Subject", r.Subject)
	m.SetBody("text/html", r.HTML)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.Sender, s.cfg.Password)
	dialer.Timeout = 10 * time.Second

	done := make(chan error, 1)
	go func() { done <- dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("email: failed to send to %s: %w", s.cfg.Recipient, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email: send cancelled: %w", ctx.Err())
	}
}

// Name returns the channel identifier.
func (s *EmailSender) Name() string {
	return "email"
}
