package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/clinicflow/clinic-api/internal/config"
)

// Sender delivers transactional mail, currently only password resets.
type Sender interface {
	SendPasswordReset(to, name, token string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

func (s *smtpSender) SendPasswordReset(to, name, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nUse the code below to reset your password. It expires in one hour.\n\n%s\n\nIf you did not request this, ignore this message.\n",
		name, token,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// NopSender swallows mail, used when SMTP is not configured.
type NopSender struct{}

func (NopSender) SendPasswordReset(string, string, string) error { return nil }
