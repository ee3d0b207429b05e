package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// FailureReason причина, по которой внешний сервис не вернул поздравление
type FailureReason string

const (
	ReasonDisabled FailureReason = "disabled" // Ключ API не задан
	ReasonTimeout  FailureReason = "timeout"
	ReasonAuth     FailureReason = "auth"
	ReasonQuota    FailureReason = "quota"
	ReasonNetwork  FailureReason = "network"
	ReasonUpstream FailureReason = "upstream" // Прочие ответы API с ошибкой
	ReasonEmpty    FailureReason = "empty"    // Пустой текст в ответе
)

// ErrGenerationDisabled возвращается генератором без ключа API
var ErrGenerationDisabled = errors.New("text generation is not configured")

// GenerationError типизированная ошибка генерации поздравления
type GenerationError struct {
	Reason FailureReason
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "wish generation failed: " + string(e.Reason)
	}
	return fmt.Sprintf("wish generation failed (%s): %v", e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ReasonOf извлекает причину из ошибки генерации
func ReasonOf(err error) FailureReason {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Reason
	}
	return ReasonUpstream
}

// WishGenerator генерирует короткое поздравление через внешний сервис.
// Любая ошибка имеет тип *GenerationError.
type WishGenerator interface {
	Generate(ctx context.Context, friendName string, totalClicks int64) (string, error)
}

type disabledGenerator struct{}

// NewDisabledGenerator возвращает генератор, который всегда отказывает с причиной disabled
func NewDisabledGenerator() WishGenerator {
	return disabledGenerator{}
}

func (disabledGenerator) Generate(context.Context, string, int64) (string, error) {
	return "", &GenerationError{Reason: ReasonDisabled, Err: ErrGenerationDisabled}
}

// OpenAIConfig параметры клиента OpenAI
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// openAIGenerator генерирует поздравления через Chat Completions API
type openAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator создаёт генератор; без ключа API возвращает отключённый генератор
func NewOpenAIGenerator(cfg OpenAIConfig) WishGenerator {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewDisabledGenerator()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0), // Повторов нет: при ошибке сразу используется запасной текст
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	return &openAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, friendName string, totalClicks int64) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(wishPrompt(friendName, totalClicks)),
		},
		Temperature: openai.Float(0.9),
		MaxTokens:   openai.Int(60),
	})
	if err != nil {
		return "", classifyError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Reason: ReasonEmpty}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GenerationError{Reason: ReasonEmpty}
	}

	return text, nil
}

func wishPrompt(friendName string, totalClicks int64) string {
	return fmt.Sprintf(
		"Write a short, witty birthday wish that lightly roasts someone named %s. "+
			"Include a LinkedIn/corporate-buzzword joke. Under 30 words. Clicks: %d.",
		friendName, totalClicks,
	)
}

// classifyError сопоставляет ошибку клиента с причиной отказа
func classifyError(ctx context.Context, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &GenerationError{Reason: ReasonTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &GenerationError{Reason: ReasonTimeout, Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &GenerationError{Reason: ReasonAuth, Err: err}
		case http.StatusTooManyRequests:
			return &GenerationError{Reason: ReasonQuota, Err: err}
		default:
			return &GenerationError{Reason: ReasonUpstream, Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GenerationError{Reason: ReasonTimeout, Err: err}
	}

	return &GenerationError{Reason: ReasonNetwork, Err: err}
}
