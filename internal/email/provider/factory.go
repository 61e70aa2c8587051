package provider

import (
	"fmt"

	"github.com/jwalitptl/email-api/internal/config"
	"github.com/jwalitptl/email-api/internal/email"
	"github.com/jwalitptl/email-api/internal/email/resend"
	"github.com/jwalitptl/email-api/internal/email/ses"
	"github.com/jwalitptl/email-api/internal/email/smtp"
)

// New builds the provider selected by cfg.Email.Provider. A non-nil error
// with a non-nil provider means the client could not be built; the
// provider then reports itself as not configured.
func New(cfg *config.Config) (email.Provider, error) {
	switch cfg.Email.Provider {
	case config.ProviderSES:
		return ses.New(ses.Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			SessionToken:    cfg.AWS.SessionToken,
			Endpoint:        cfg.AWS.Endpoint,
		})
	case config.ProviderResend:
		return resend.New(resend.Config{APIKey: cfg.Resend.APIKey}), nil
	case config.ProviderSMTP:
		return smtp.New(smtp.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Email.Provider)
	}
}

// Brand derives the template brand from the email settings.
func Brand(cfg *config.Config, year int) email.Brand {
	return email.Brand{
		Name:           cfg.Email.FromName,
		Tagline:        cfg.Email.Tagline,
		SiteURL:        cfg.Email.SiteURL,
		SupportAddress: cfg.Email.SupportAddress,
		Year:           year,
	}
}

// NewService wires templates and provider into an email.Service.
func NewService(cfg *config.Config, p email.Provider, year int, opts email.Options) (*email.Service, error) {
	templates, err := email.NewTemplates(Brand(cfg, year))
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	opts.FromAddress = cfg.Email.FromAddress
	opts.FromName = cfg.Email.FromName
	return email.NewService(p, templates, opts), nil
}
