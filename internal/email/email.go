// Package email sends ticket replies via SendGrid.
package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sender is the SendGrid client surface Service consumes; faked in tests.
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Service sends reply emails. One synchronous attempt per send, no
// internal retry; a failed send must block archival, so failures are
// returned with the transport's reason attached.
type Service struct {
	client    sender
	fromEmail string
	fromName  string
}

// NewService creates an email service backed by SendGrid.
func NewService(apiKey, fromEmail, fromName string) *Service {
	if fromName == "" {
		fromName = "AI Support Team"
	}
	return &Service{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers one email. Returns nil only when SendGrid accepted the
// message.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error sending to %s: status %d, body: %s", to, response.StatusCode, response.Body)
	}
	return nil
}
