package resend

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/email-api/internal/email"
)

type fakeEmails struct {
	req *resend.SendEmailRequest
	err error
}

func (f *fakeEmails) SendWithContext(_ context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "re_123"}, nil
}

func TestSender_Send(t *testing.T) {
	emails := &fakeEmails{}
	s := NewWithClient(emails, Config{APIKey: "re_key"})

	id, err := s.Send(context.Background(), &email.Message{
		From:     "noreply@adiology.online",
		FromName: "Adiology",
		To:       []string{"a@b.c"},
		CC:       []string{"cc@b.c"},
		Subject:  "Hello",
		HTML:     "<p>hi</p>",
		Text:     "hi",
		ReplyTo:  "reply@b.c",
	})

	require.NoError(t, err)
	assert.Equal(t, "re_123", id)
	assert.Equal(t, "Adiology <noreply@adiology.online>", emails.req.From)
	assert.Equal(t, []string{"a@b.c"}, emails.req.To)
	assert.Equal(t, []string{"cc@b.c"}, emails.req.Cc)
	assert.Equal(t, "<p>hi</p>", emails.req.Html)
	assert.Equal(t, "hi", emails.req.Text)
	assert.Equal(t, "reply@b.c", emails.req.ReplyTo)
}

func TestSender_SendError(t *testing.T) {
	s := NewWithClient(&fakeEmails{err: errors.New("domain not verified")}, Config{APIKey: "re_key"})

	_, err := s.Send(context.Background(), &email.Message{To: []string{"a@b.c"}, Subject: "s", HTML: "h"})

	var perr *email.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Resend Error: resend_error - domain not verified", perr.Error())
}

func TestSender_Configured(t *testing.T) {
	assert.True(t, New(Config{APIKey: "re_key"}).Configured())
	assert.False(t, New(Config{}).Configured())
	assert.Equal(t, "Resend", New(Config{}).Name())
}
