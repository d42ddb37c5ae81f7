package prompt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Keys with special meaning in an interpreter result.
const (
	FormatKey = "report_type"
	ErrorKey  = "error"
)

// DefaultFormat is used when the prompt does not name one.
const DefaultFormat = "pdf"

var (
	ErrEmptyPrompt          = errors.New("empty prompt")
	ErrInterpretationFailed = errors.New("AI call failed")
	ErrNotUnderstood        = errors.New("AI understood nothing")
)

// Error carries the interpreter's detail text. Kind is ErrInterpretationFailed
// or ErrNotUnderstood and is what errors.Is matches.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

// Interpreter turns free text into filter parameters. A result holding the
// ErrorKey means the text was read but not understood.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (map[string]string, error)
}

// Request is a translated prompt: the output format and the filter values.
type Request struct {
	Format  string
	Filters url.Values
}

// Adapter translates prompts with an Interpreter, optionally through a Cache.
type Adapter struct {
	interpreter Interpreter
	cache       Cache
	now         func() time.Time
	logger      *zap.Logger
}

// AdapterOption customises an Adapter.
type AdapterOption func(*Adapter)

// WithCache sets the interpretation cache.
func WithCache(c Cache) AdapterOption {
	return func(a *Adapter) { a.cache = c }
}

// WithAdapterClock overrides the time source used to date cache keys.
func WithAdapterClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter creates an Adapter.
func NewAdapter(interpreter Interpreter, logger *zap.Logger, opts ...AdapterOption) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{interpreter: interpreter, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Translate interprets text into a Request. Interpreter failures are returned
// as *Error so the two failure kinds stay apart.
func (a *Adapter) Translate(ctx context.Context, text string) (*Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPrompt
	}

	key := CacheKey(a.now(), text)
	if a.cache != nil {
		params, ok, err := a.cache.Get(ctx, key)
		if err != nil {
			a.logger.Warn("prompt cache read failed", zap.Error(err))
		} else if ok {
			a.logger.Debug("prompt cache hit", zap.String("key", key))
			return toRequest(params), nil
		}
	}

	params, err := a.interpreter.Interpret(ctx, text)
	if err != nil {
		a.logger.Error("prompt interpretation failed", zap.Error(err))
		return nil, &Error{Kind: ErrInterpretationFailed, Detail: err.Error()}
	}
	if detail, ok := params[ErrorKey]; ok {
		a.logger.Warn("prompt not understood", zap.String("detail", detail))
		return nil, &Error{Kind: ErrNotUnderstood, Detail: detail}
	}

	a.logger.Info("prompt interpreted", zap.Any("params", params))

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, params); err != nil {
			a.logger.Warn("prompt cache write failed", zap.Error(err))
		}
	}
	return toRequest(params), nil
}

func toRequest(params map[string]string) *Request {
	req := &Request{Format: DefaultFormat, Filters: url.Values{}}
	for k, v := range params {
		if k == FormatKey {
			if f := strings.ToLower(strings.TrimSpace(v)); f != "" {
				req.Format = f
			}
			continue
		}
		if v == "" {
			continue
		}
		req.Filters.Set(k, v)
	}
	return req
}

// CacheKey is the sha256 of the day and the normalized prompt. The interpreter
// resolves relative dates against today, so entries never outlive their day.
func CacheKey(day time.Time, text string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(day.Format("2006-01-02") + "|" + norm))
	return hex.EncodeToString(sum[:])
}
