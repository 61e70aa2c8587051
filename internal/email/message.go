package email

import (
	"fmt"
	"strings"
)

// Kind names one of the logical email operations.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
	KindWelcome       Kind = "welcome"
	KindCustom        Kind = "custom"
)

// Message is a fully-prepared outbound email.
type Message struct {
	From     string   // Sender address; the service default is used when empty
	FromName string   // Sender display name
	To       []string // Recipients, at least one
	CC       []string
	BCC      []string
	ReplyTo  string
	Subject  string
	HTML     string
	Text     string // Optional plain text alternative
}

// Validate checks the invariants every provider relies on.
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.Subject == "" {
		return ErrNoSubject
	}
	if m.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// Source formats the sender in RFC 5322 form: "Name <addr>", or just the
// address when there is no display name.
func (m *Message) Source() string {
	if m.FromName == "" {
		return m.From
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.From)
}

// Result is the outcome of one send attempt. Success carries the provider
// message id and the recipients; failure carries only Error.
type Result struct {
	Success   bool
	MessageID string
	To        []string
	Error     string
}

// Sent builds a successful Result.
func Sent(messageID string, to []string) Result {
	return Result{Success: true, MessageID: messageID, To: to}
}

// Failed builds a failed Result.
func Failed(reason string) Result {
	return Result{Error: reason}
}

// Content is a rendered subject with its HTML and plain text bodies.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

// DisplayName returns userName, or the local part of addr when userName is empty.
func DisplayName(userName, addr string) string {
	if userName != "" {
		return userName
	}
	local, _, _ := strings.Cut(addr, "@")
	return local
}
