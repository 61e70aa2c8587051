package email

import "context"

// Provider is the external mail-sending service.
type Provider interface {
	// Name is the label used in logs, metrics and failure descriptions.
	Name() string

	// Configured reports whether credentials are present and the client
	// was constructed.
	Configured() bool

	// Send delivers a validated message and returns the provider-assigned id.
	// Structured rejections are returned as *ProviderError.
	Send(ctx context.Context, msg *Message) (string, error)
}
