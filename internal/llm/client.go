// Package llm sends single chat-completion requests to an OpenAI-compatible
// endpoint in JSON object mode.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultTemperature = 0.1
	DefaultTimeout     = 120 * time.Second
)

// ErrNoChoices is returned when the endpoint answers with an empty choice
// list.
var ErrNoChoices = errors.New("completion returned no choices")

// Config holds the connection settings for Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature *float64 // default sampling temperature; nil uses DefaultTemperature
}

// Options override per-request settings. Zero values fall back to the
// client defaults.
type Options struct {
	Model       string
	Temperature *float64
}

type Client struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(0),
		),
		model:       ResolveModel(cfg.Model),
		temperature: temperature,
		timeout:     cfg.Timeout,
	}
}

// Model is the model used when a request does not name one.
func (c *Client) Model() string { return c.model }

// Complete sends one system and one user message and returns the content of
// the first choice. The call is bounded by the client timeout and is never
// retried.
func (c *Client) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	model := c.model
	if opts.Model != "" {
		model = ResolveModel(opts.Model)
	}
	if model == "" {
		return "", fmt.Errorf("completion: no model configured")
	}
	temperature := c.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:    openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion api error %d: %w", apiErr.StatusCode, err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("completion timed out after %s: %w", c.timeout, err)
		}
		return "", fmt.Errorf("completion call: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrNoChoices
	}
	return completion.Choices[0].Message.Content, nil
}
