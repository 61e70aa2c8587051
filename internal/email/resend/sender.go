package resend

import (
	"context"

	"github.com/resend/resend-go/v3"

	"github.com/jwalitptl/email-api/internal/email"
)

const (
	providerName = "Resend"
	errorCode    = "resend_error"
)

// Config holds Resend email provider configuration.
type Config struct {
	APIKey string
}

// API is the subset of the Resend emails service used by Sender.
type API interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender implements email.Provider using the Resend API.
type Sender struct {
	emails API
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	s := &Sender{config: cfg}
	if cfg.APIKey != "" {
		s.emails = resend.NewClient(cfg.APIKey).Emails
	}
	return s
}

// NewWithClient creates a sender around an existing emails service.
func NewWithClient(emails API, cfg Config) *Sender {
	return &Sender{emails: emails, config: cfg}
}

// Name implements email.Provider.
func (s *Sender) Name() string {
	return providerName
}

// Configured implements email.Provider.
func (s *Sender) Configured() bool {
	return s.config.APIKey != "" && s.emails != nil
}

// Send implements email.Provider.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (string, error) {
	req := &resend.SendEmailRequest{
		From:    msg.Source(),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
		Cc:      msg.CC,
		Bcc:     msg.BCC,
	}

	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return "", &email.ProviderError{
			Provider: providerName,
			Code:     errorCode,
			Message:  err.Error(),
			Err:      err,
		}
	}
	return resp.Id, nil
}
