package notification

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a notification to an external channel. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(toEmail, toName, subject, htmlBody string) error
}

// SendgridSender delivers email through the SendGrid v3 API.
type SendgridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

func NewSendgridSender(apiKey, fromEmail, fromName string, logger *slog.Logger) *SendgridSender {
	return &SendgridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (s *SendgridSender) Send(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	s.logger.Debug("email sent", "to", toEmail, "subject", subject)
	return nil
}

// NoopSender discards email. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) Send(toEmail, toName, subject, htmlBody string) error {
	return nil
}
