package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func TestBuildMsg(t *testing.T) {
	m, err := buildMsg("noreply@scribefinder.local", Message{
		To:      "alice@x.com",
		Subject: "Scribe Connect",
		Body:    "Dear alice, bob has accepted your scribe request.",
	})
	require.NoError(t, err)

	to := m.GetToString()
	assert.Equal(t, []string{"<alice@x.com>"}, to)
	assert.Equal(t, []string{"Scribe Connect"}, m.GetGenHeader(gomail.HeaderSubject))
}

func TestBuildMsg_InvalidRecipient(t *testing.T) {
	_, err := buildMsg("noreply@scribefinder.local", Message{To: "not an address"})
	assert.Error(t, err)
}

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Host: "", Port: 587, From: "noreply@x.com"})
	assert.Error(t, err)

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "broken"})
	assert.Error(t, err)

	sender, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@x.com", Username: "u", Password: "p", Timeout: time.Second})
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestSMTPSender_UnreachableRelay(t *testing.T) {
	sender, err := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "noreply@x.com", Timeout: time.Second})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{To: "alice@x.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	err := NewLogSender(logger).Send(context.Background(), Message{To: "alice@x.com", Subject: "Scribe Connect", Body: "hello"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alice@x.com")
	assert.Contains(t, buf.String(), "hello")
}
