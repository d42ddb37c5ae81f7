package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"api_reports/internal/config"
)

var errBadModelOutput = errors.New("model output is not a JSON object")

const systemPromptTemplate = `Eres un asistente que traduce pedidos de reportes de ventas a filtros.
Responde SOLO con un objeto JSON, sin texto adicional.
Claves permitidas:
- report_type: "pdf", "csv" o "excel"
- start_date, end_date: fechas YYYY-MM-DD
- status: "PENDING", "COMPLETED" o "CANCELLED"
- user_id: número entero
- customer: texto del nombre o email del cliente
- min_amount, max_amount: montos decimales
- product: texto del nombre del producto
Omite las claves que el pedido no menciona.
Si no entiendes el pedido responde {"error": "<motivo>"}.
La fecha de hoy es %s.`

// ChatInterpreter asks a chat model for the filter JSON. Calls go through a
// circuit breaker so a failing provider is not hammered.
type ChatInterpreter struct {
	model   model.BaseChatModel
	breaker *gobreaker.CircuitBreaker[*schema.Message]
	now     func() time.Time
	logger  *zap.Logger
}

// NewChatInterpreter wraps m. breakerTimeout is how long the breaker stays open.
func NewChatInterpreter(m model.BaseChatModel, breakerTimeout time.Duration, logger *zap.Logger) *ChatInterpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	ci := &ChatInterpreter{model: m, now: time.Now, logger: logger}
	ci.breaker = gobreaker.NewCircuitBreaker[*schema.Message](gobreaker.Settings{
		Name:    "prompt-interpreter",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return ci
}

// NewGeminiModel builds the Gemini chat model from config.
func NewGeminiModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := float32(0)
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}
	return cm, nil
}

// Interpret implements Interpreter.
func (ci *ChatInterpreter) Interpret(ctx context.Context, text string) (map[string]string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(systemPromptTemplate, ci.now().Format("2006-01-02"))),
		schema.UserMessage(text),
	}

	out, err := ci.breaker.Execute(func() (*schema.Message, error) {
		return ci.model.Generate(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errBadModelOutput
	}

	ci.logger.Debug("model answered", zap.String("content", out.Content))
	return ParseParams(out.Content)
}

// ParseParams decodes the model's JSON answer, tolerating a ```json fence.
// Scalars are stringified and nulls dropped.
func ParseParams(content string) (map[string]string, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadModelOutput, err)
	}

	params := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			params[k] = val
		case float64:
			params[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			params[k] = strconv.FormatBool(val)
		default:
			b, _ := json.Marshal(val)
			params[k] = string(b)
		}
	}
	return params, nil
}

// Disabled is an Interpreter that always fails with reason. Used when no
// model is configured so the dynamic endpoint answers instead of panicking.
func Disabled(reason string) Interpreter {
	return disabled(reason)
}

type disabled string

func (d disabled) Interpret(context.Context, string) (map[string]string, error) {
	return nil, errors.New(string(d))
}
