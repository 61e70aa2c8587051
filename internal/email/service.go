package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/email-api/pkg/metrics"
)

// Options configures a Service.
type Options struct {
	FromAddress string
	FromName    string
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
}

// Service renders canned emails and relays messages to the provider.
// It is constructed once at start and is safe for concurrent use.
type Service struct {
	provider  Provider
	templates *Templates
	from      string
	fromName  string
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewService creates a Service sending through provider.
func NewService(provider Provider, templates *Templates, opts Options) *Service {
	return &Service{
		provider:  provider,
		templates: templates,
		from:      opts.FromAddress,
		fromName:  opts.FromName,
		logger:    opts.Logger.With().Str("component", "email").Logger(),
		metrics:   opts.Metrics,
	}
}

// IsConfigured reports whether the provider has credentials and a client.
func (s *Service) IsConfigured() bool {
	return s.provider != nil && s.provider.Configured()
}

// ProviderName returns the label of the configured provider.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// Send relays msg as-is, without templates.
func (s *Service) Send(ctx context.Context, msg *Message) Result {
	return s.send(ctx, KindCustom, msg)
}

// SendVerification sends the account verification email to addr.
func (s *Service) SendVerification(ctx context.Context, addr, verificationLink, userName string) Result {
	content, err := s.templates.RenderVerification(DisplayName(userName, addr), verificationLink)
	if err != nil {
		return s.renderFailed(KindVerification, err)
	}
	return s.send(ctx, KindVerification, content.toMessage(addr))
}

// SendPasswordReset sends the password reset email to addr.
func (s *Service) SendPasswordReset(ctx context.Context, addr, resetLink, userName string) Result {
	content, err := s.templates.RenderPasswordReset(DisplayName(userName, addr), resetLink)
	if err != nil {
		return s.renderFailed(KindPasswordReset, err)
	}
	return s.send(ctx, KindPasswordReset, content.toMessage(addr))
}

// SendWelcome sends the welcome email to addr.
func (s *Service) SendWelcome(ctx context.Context, addr, userName string) Result {
	content, err := s.templates.RenderWelcome(DisplayName(userName, addr))
	if err != nil {
		return s.renderFailed(KindWelcome, err)
	}
	return s.send(ctx, KindWelcome, content.toMessage(addr))
}

func (c Content) toMessage(addr string) *Message {
	return &Message{
		To:      []string{addr},
		Subject: c.Subject,
		HTML:    c.HTML,
		Text:    c.Text,
	}
}

func (s *Service) renderFailed(kind Kind, err error) Result {
	s.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to render email")
	s.metrics.ObserveSend(string(kind), s.ProviderName(), metrics.StatusFailed)
	return Failed(fmt.Sprintf("Unexpected error: %v", err))
}

// send makes the single provider call. Every error, including a panic in
// the provider, comes back as a failed Result.
func (s *Service) send(ctx context.Context, kind Kind, msg *Message) (res Result) {
	provider := s.ProviderName()
	log := s.logger.With().Str("kind", string(kind)).Str("provider", provider).Logger()

	if !s.IsConfigured() {
		log.Warn().Msg("email provider not configured, email not sent")
		s.metrics.ObserveSend(string(kind), provider, metrics.StatusNotConfigured)
		return Failed(fmt.Sprintf("%s not configured", provider))
	}

	m := *msg
	if m.From == "" {
		m.From = s.from
	}
	if m.FromName == "" {
		m.FromName = s.fromName
	}
	if err := m.Validate(); err != nil {
		log.Warn().Err(err).Msg("refusing to send invalid message")
		s.metrics.ObserveSend(string(kind), provider, metrics.StatusInvalid)
		return Failed(fmt.Sprintf("Invalid message: %v", err))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("email provider panicked")
			s.metrics.ObserveSend(string(kind), provider, metrics.StatusFailed)
			res = Failed(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	start := time.Now()
	id, err := s.provider.Send(ctx, &m)
	s.metrics.ObserveProvider(provider, time.Since(start))
	if err != nil {
		reason := describe(err)
		log.Error().Err(err).Msg(reason)
		s.metrics.ObserveSend(string(kind), provider, metrics.StatusFailed)
		return Failed(reason)
	}

	log.Info().Str("message_id", id).Int("recipients", len(m.To)).Msg("email sent successfully")
	s.metrics.ObserveSend(string(kind), provider, metrics.StatusSent)
	return Sent(id, m.To)
}
