package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
)

func TestBuildMessage(t *testing.T) {
	m, err := buildMessage(Message{
		From:    "noreply@example.com",
		To:      "ada@example.com",
		Subject: "Account verification OTP",
		Text:    "Your OTP is 123456.",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "ada@example.com")
	assert.Contains(t, raw, "Subject: Account verification OTP")
	assert.Contains(t, raw, "Your OTP is 123456.")
}

func TestBuildMessage_InvalidAddresses(t *testing.T) {
	_, err := buildMessage(Message{From: "not an address", To: "ada@example.com"})
	assert.Error(t, err)

	_, err = buildMessage(Message{From: "noreply@example.com", To: ""})
	assert.Error(t, err)
}

func TestSMTPMailer_ClientOptions(t *testing.T) {
	anon := NewSMTPMailer(config.MailConfig{SMTPHost: "localhost", SMTPPort: 2525}, zap.NewNop())
	assert.Len(t, anon.clientOptions(), 2)

	authed := NewSMTPMailer(config.MailConfig{SMTPHost: "localhost", SMTPPort: 2525, SMTPUser: "u", SMTPPassword: "p"}, zap.NewNop())
	assert.Len(t, authed.clientOptions(), 5)
}

func TestSMTPMailer_InvalidRecipientFailsBeforeDial(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{SMTPHost: "localhost", SMTPPort: 1}, zap.NewNop())
	err := m.Send(context.Background(), Message{From: "noreply@example.com", To: "bad address"})
	assert.ErrorContains(t, err, "invalid to address")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer(zap.NewNop()).Send(context.Background(), Message{To: "a@b.c"}))
}
