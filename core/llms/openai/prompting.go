package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ema-chat/core/llms"
)

const DefaultModel = goopenai.GPT3Dot5Turbo

var _ llms.ChatModel = (*Client)(nil)

// Client talks to the chat completions endpoint. One Chat call is exactly
// one HTTP exchange.
type Client struct {
	client *goopenai.Client
	model  string
}

type ClientOption func(*goopenai.ClientConfig)

// WithBaseURL points the client at a different API root, e.g. a proxy or a
// compatible provider. The chat completions path is appended to it.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *goopenai.ClientConfig) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *goopenai.ClientConfig) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

func NewClient(apiKey string, model string, opts ...ClientOption) *Client {
	if model == "" {
		model = DefaultModel
	}

	config := goopenai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) Model() string { return c.model }

func (c *Client) Chat(ctx context.Context, messages []llms.Message) (string, error) {
	ctx, span := tracer.Start(ctx, "chat completion")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		err = classifyError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: response has no choices", llms.ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		err := fmt.Errorf("%w: first choice has no message content", llms.ErrMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.Int("llm.usage.total_tokens", resp.Usage.TotalTokens))
	return content, nil
}

// classifyError sorts go-openai failures into transport failures (nothing
// usable came back) and malformed responses (a 2xx body that did not decode).
func classifyError(err error) error {
	var apiErr *goopenai.APIError
	var requestErr *goopenai.RequestError
	var urlErr *url.Error
	var netErr net.Error

	switch {
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: status %d: %s", llms.ErrTransport, apiErr.HTTPStatusCode, apiErr.Message)
	case errors.As(err, &requestErr):
		return fmt.Errorf("%w: status %d: %w", llms.ErrTransport, requestErr.HTTPStatusCode, err)
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", llms.ErrTransport, err)
	default:
		logger.Warn("completion body could not be decoded", "error", err)
		return fmt.Errorf("%w: %w", llms.ErrMalformedResponse, err)
	}
}
