package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/email-api/internal/email"
)

const providerName = "SMTP"

// Config holds SMTP relay configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer sends composed messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements email.Provider over a plain SMTP relay.
type Sender struct {
	dialer Dialer
	cfg    Config
}

// New creates an SMTP sender.
func New(cfg Config) *Sender {
	s := &Sender{cfg: cfg}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// NewWithDialer creates a sender around an existing dialer.
func NewWithDialer(d Dialer, cfg Config) *Sender {
	return &Sender{dialer: d, cfg: cfg}
}

// Name implements email.Provider.
func (s *Sender) Name() string {
	return providerName
}

// Configured implements email.Provider.
func (s *Sender) Configured() bool {
	return s.cfg.Host != "" && s.dialer != nil
}

// Send implements email.Provider. SMTP assigns no id of its own, so the
// generated Message-ID header is returned.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := messageID(msg.From)
	if err := s.dialer.DialAndSend(compose(msg, id)); err != nil {
		var smtpErr *textproto.Error
		if errors.As(err, &smtpErr) {
			return "", &email.ProviderError{
				Provider: providerName,
				Code:     strconv.Itoa(smtpErr.Code),
				Message:  smtpErr.Msg,
				Err:      err,
			}
		}
		return "", fmt.Errorf("smtp: send email: %w", err)
	}
	return id, nil
}

func compose(msg *email.Message, id string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From, msg.FromName)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		m.SetHeader("Bcc", msg.BCC...)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Message-ID", id)
	m.SetHeader("Subject", msg.Subject)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m
}

func messageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
