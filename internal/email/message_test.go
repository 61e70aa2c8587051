package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Bob", DisplayName("Bob", "alice@x.com"))
	assert.Equal(t, "alice", DisplayName("", "alice@x.com"))
	assert.Equal(t, "no-at-sign", DisplayName("", "no-at-sign"))
	assert.Equal(t, "", DisplayName("", "@x.com"))
}

func TestMessage_Source(t *testing.T) {
	m := &Message{From: "noreply@adiology.online", FromName: "Adiology"}
	assert.Equal(t, "Adiology <noreply@adiology.online>", m.Source())

	m.FromName = ""
	assert.Equal(t, "noreply@adiology.online", m.Source())
}

func TestMessage_Validate(t *testing.T) {
	valid := Message{To: []string{"a@b.c"}, Subject: "s", HTML: "h"}
	assert.NoError(t, valid.Validate())

	noTo := valid
	noTo.To = nil
	assert.ErrorIs(t, noTo.Validate(), ErrNoRecipient)

	noSubject := valid
	noSubject.Subject = ""
	assert.ErrorIs(t, noSubject.Validate(), ErrNoSubject)

	noHTML := valid
	noHTML.HTML = ""
	assert.ErrorIs(t, noHTML.Validate(), ErrNoContent)
}

func TestResult(t *testing.T) {
	ok := Sent("id-1", []string{"a@b.c"})
	assert.True(t, ok.Success)
	assert.Equal(t, "id-1", ok.MessageID)
	assert.Empty(t, ok.Error)

	failed := Failed("boom")
	assert.False(t, failed.Success)
	assert.Empty(t, failed.MessageID)
	assert.Nil(t, failed.To)
	assert.Equal(t, "boom", failed.Error)
}
