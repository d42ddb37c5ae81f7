package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap/zaptest"

	"api_reports/internal/config"
)

var alertMessage = Message{
	From:    "alertas@x.com",
	To:      []string{"a@x.com"},
	Subject: "¡ALERTA DE STOCK BAJO! - Widget",
	Body:    "hola\nmundo",
}

func TestHTTPMailer(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL+"/send", "secret")
	defer m.Close()

	require.NoError(t, m.Send(context.Background(), alertMessage))
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, alertMessage, got)
}

func TestHTTPMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "")
	defer m.Close()

	err := m.Send(context.Background(), alertMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func newTestSMTPMailer(t *testing.T, cfg config.MailConfig) *SMTPMailer {
	t.Helper()
	m, err := NewSMTPMailer(cfg)
	require.NoError(t, err)
	return m
}

func TestSMTPMailer(t *testing.T) {
	m := newTestSMTPMailer(t, config.MailConfig{SMTPHost: "mail.local", SMTPPort: 2525, SMTPUser: "u", SMTPPassword: "p"})

	var sent []*mail.Msg
	m.send = func(_ context.Context, msgs ...*mail.Msg) error {
		sent = msgs
		return nil
	}

	require.NoError(t, m.Send(context.Background(), alertMessage))
	require.Len(t, sent, 1)

	msg := sent[0]
	assert.Contains(t, strings.Join(msg.GetFromString(), ","), "alertas@x.com")
	assert.Contains(t, strings.Join(msg.GetToString(), ","), "a@x.com")
	assert.Equal(t, []string{alertMessage.Subject}, msg.GetGenHeader(mail.HeaderSubject))

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "hola")
	assert.Contains(t, raw.String(), "mundo")
}

func TestSMTPMailer_PassesContext(t *testing.T) {
	m := newTestSMTPMailer(t, config.MailConfig{SMTPHost: "mail.local", SMTPPort: 25})

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "alert")

	m.send = func(got context.Context, _ ...*mail.Msg) error {
		assert.Equal(t, "alert", got.Value(key{}))
		return errors.New("boom")
	}

	err := m.Send(ctx, alertMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
}

func TestSMTPMailer_CancelledDial(t *testing.T) {
	m := newTestSMTPMailer(t, config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Send(ctx, alertMessage))
}

func TestSMTPMailer_InvalidSender(t *testing.T) {
	m := newTestSMTPMailer(t, config.MailConfig{SMTPHost: "mail.local", SMTPPort: 25})
	m.send = func(context.Context, ...*mail.Msg) error {
		t.Fatal("nothing should be sent")
		return nil
	}

	msg := alertMessage
	msg.From = "no es una direccion"
	assert.Error(t, m.Send(context.Background(), msg))
}

func TestMailers_NoRecipients(t *testing.T) {
	msg := alertMessage
	msg.To = nil

	smtpMailer := newTestSMTPMailer(t, config.MailConfig{SMTPHost: "mail.local", SMTPPort: 25})
	assert.ErrorIs(t, smtpMailer.Send(context.Background(), msg), ErrNoRecipients)
	assert.ErrorIs(t, NewHTTPMailer("http://127.0.0.1:0", "").Send(context.Background(), msg), ErrNoRecipients)
}

func TestNewMailer(t *testing.T) {
	logger := zaptest.NewLogger(t)

	m, err := NewMailer(config.MailConfig{Transport: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), alertMessage))

	m, err = NewMailer(config.MailConfig{Transport: "SMTP", SMTPHost: "h", SMTPPort: 25}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	m, err = NewMailer(config.MailConfig{Transport: "http", RelayURL: "http://relay"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &HTTPMailer{}, m)

	_, err = NewMailer(config.MailConfig{Transport: "http"}, logger)
	assert.ErrorIs(t, err, ErrUnknownTransport)

	_, err = NewMailer(config.MailConfig{Transport: "pigeon"}, logger)
	assert.True(t, errors.Is(err, ErrUnknownTransport))
}
