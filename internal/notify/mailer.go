package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"resty.dev/v3"

	"api_reports/internal/config"
)

var (
	ErrUnknownTransport = errors.New("unknown mail transport")
	ErrNoRecipients     = errors.New("message has no recipients")
)

// Message is a plain-text email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Mailer delivers a message. Implementations must honour ctx.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named in cfg.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch strings.ToLower(cfg.Transport) {
	case "", "log":
		return NewLogMailer(logger), nil
	case "smtp":
		m, err := NewSMTPMailer(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "http":
		if cfg.RelayURL == "" {
			return nil, fmt.Errorf("%w: MAIL_RELAY_URL is required for http", ErrUnknownTransport)
		}
		return NewHTTPMailer(cfg.RelayURL, cfg.RelayToken), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}

// SMTPMailer sends through an SMTP server, upgrading to TLS when the server
// offers it. PLAIN auth is used when a user is set.
type SMTPMailer struct {
	client *mail.Client
	send   func(ctx context.Context, msgs ...*mail.Msg) error
}

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(30 * time.Second),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, send: client.DialAndSendWithContext}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	mm, err := compose(msg)
	if err != nil {
		return err
	}
	if err := m.send(ctx, mm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func compose(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := mm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)
	return mm, nil
}

// HTTPMailer posts the message as JSON to a mail relay.
type HTTPMailer struct {
	client *resty.Client
	url    string
}

func NewHTTPMailer(url, token string) *HTTPMailer {
	client := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HTTPMailer{client: client, url: url}
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	res, err := m.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("mail relay request: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("mail relay answered %d: %s", res.StatusCode(), res.String())
	}
	return nil
}

// Close releases the underlying HTTP client.
func (m *HTTPMailer) Close() error {
	return m.client.Close()
}

// LogMailer only logs. For development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("email (log transport)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
