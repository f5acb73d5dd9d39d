package services

import (
	"fmt"

	"github.com/karaokeos/backend/internal/config"
	"gopkg.in/mail.v2"
)

// Mailer is the interface that wraps the outgoing mail transport
type Mailer interface {
	// Method Send delivers an HTML message.
	//
	// If the message could not be delivered, the error will be returned.
	Send(to, subject, htmlBody string) error
}

// smtpMailer sends mail through an SMTP server
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer from SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig) *smtpMailer {
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Send sends an email using gopkg.in/mail.v2
func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
