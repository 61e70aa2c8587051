package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"

	"github.com/jwalitptl/email-api/internal/email"
)

const (
	providerName = "SES"
	charset      = "UTF-8"
)

// ErrInvalidConfig is returned when the client cannot be constructed.
var ErrInvalidConfig = errors.New("ses: invalid configuration")

// Config holds AWS SES provider configuration.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string // Optional override, e.g. LocalStack
}

// API is the subset of the SES client used by Sender.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Sender implements email.Provider using Amazon SES.
type Sender struct {
	client API
	cfg    Config
}

// New creates an SES sender. On error the returned Sender is still usable
// but reports itself as not configured.
func New(cfg Config) (*Sender, error) {
	s := &Sender{cfg: cfg}
	if cfg.Region == "" {
		return s, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}

	opts := []func(*ses.Options){
		func(o *ses.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				cfg.SessionToken,
			)
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *ses.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	s.client = ses.New(ses.Options{}, opts...)
	return s, nil
}

// NewWithClient creates a sender around an existing client.
func NewWithClient(client API, cfg Config) *Sender {
	return &Sender{client: client, cfg: cfg}
}

// Name implements email.Provider.
func (s *Sender) Name() string {
	return providerName
}

// Configured implements email.Provider.
func (s *Sender) Configured() bool {
	return s.cfg.AccessKeyID != "" && s.cfg.SecretAccessKey != "" && s.client != nil
}

// Region returns the configured AWS region.
func (s *Sender) Region() string {
	return s.cfg.Region
}

// Send implements email.Provider.
func (s *Sender) Send(ctx context.Context, msg *email.Message) (string, error) {
	out, err := s.client.SendEmail(ctx, buildInput(msg))
	if err != nil {
		return "", wrapError(err)
	}
	return aws.ToString(out.MessageId), nil
}

func buildInput(msg *email.Message) *ses.SendEmailInput {
	destination := &types.Destination{ToAddresses: msg.To}
	if len(msg.CC) > 0 {
		destination.CcAddresses = msg.CC
	}
	if len(msg.BCC) > 0 {
		destination.BccAddresses = msg.BCC
	}

	body := &types.Body{Html: content(msg.HTML)}
	if msg.Text != "" {
		body.Text = content(msg.Text)
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(msg.Source()),
		Destination: destination,
		Message: &types.Message{
			Subject: content(msg.Subject),
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	return input
}

func content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String(charset)}
}

// wrapError converts SES API errors into email.ProviderError; anything else
// (network faults, signing failures) is returned wrapped as-is.
func wrapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &email.ProviderError{
			Provider: providerName,
			Code:     apiErr.ErrorCode(),
			Message:  apiErr.ErrorMessage(),
			Err:      err,
		}
	}
	return fmt.Errorf("ses: send email: %w", err)
}
