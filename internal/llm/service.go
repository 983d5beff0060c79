package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog/log"

	xhttp "offer-automation/pkg/http"
)

// Options configures the chat completions client.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	SiteURL     string
	SiteName    string
	Timeout     time.Duration
	Temperature float64
	Observer    Observer
}

// Service talks to an OpenAI-compatible chat completions API (OpenRouter by default).
// Requests are single shot: no streaming and no retries.
type Service struct {
	client      openai.Client
	model       shared.ChatModel
	temperature float64
	observer    Observer
}

// Observer is notified after every completion attempt.
type Observer func(model string, elapsed time.Duration, err error)

// APIError is a non-success answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("AI parsing failed (status %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewService(opts Options) (*Service, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("LLM API key not configured")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("LLM model not configured")
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}

	clientOptions := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(xhttp.NewClient(opts.Timeout).HTTPClient()),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(opts.BaseURL))
	}
	if opts.SiteURL != "" {
		clientOptions = append(clientOptions, option.WithHeader("HTTP-Referer", opts.SiteURL))
	}
	if opts.SiteName != "" {
		clientOptions = append(clientOptions, option.WithHeader("X-Title", opts.SiteName))
	}

	return &Service{
		client:      openai.NewClient(clientOptions...),
		model:       shared.ChatModel(opts.Model),
		temperature: opts.Temperature,
		observer:    opts.Observer,
	}, nil
}

// Complete sends one system and one user message and returns the first
// choice's text, trimmed.
func (s *Service) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(s.temperature),
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	elapsed := time.Since(start)

	if s.observer != nil {
		s.observer(string(s.model), elapsed, err)
	}

	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Str("model", string(s.model)).Msg("LLM request failed")
		return "", describe(err)
	}

	log.Debug().Dur("elapsed", elapsed).Str("model", string(s.model)).Msg("LLM request completed")

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// describe surfaces the provider's own message for non-success responses.
func describe(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
	}
	return fmt.Errorf("LLM request: %w", err)
}
