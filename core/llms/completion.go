package llms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-chat/core/conversations"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	contextPrefix    = "This is our conversation context: "
	contextSeparator = "This is what I am asking now: "
)

// ChatModel performs one request/response exchange with a remote completion
// service. Implementations must wrap failures in ErrTransport or
// ErrMalformedResponse.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// CompletionClient turns user prompts into assistant replies and keeps the
// conversation memory consistent with what was actually answered.
type CompletionClient struct {
	model   ChatModel
	memory  *conversations.Memory
	persona string
	options CompletionOptions
}

func NewCompletionClient(model ChatModel, memory *conversations.Memory, persona string, opts ...CompletionOption) *CompletionClient {
	if memory == nil {
		memory = conversations.NewMemory()
	}

	options := CompletionOptions{Timeout: DefaultCompletionTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	return &CompletionClient{
		model:   model,
		memory:  memory,
		persona: persona,
		options: options,
	}
}

func (c *CompletionClient) Memory() *conversations.Memory { return c.memory }
func (c *CompletionClient) Persona() string               { return c.persona }

// BuildRequest assembles the outbound context for prompt from the current
// state of memory.
func BuildRequest(memory conversations.ContextV0, prompt string) PendingRequest {
	var sb strings.Builder
	sb.WriteString(contextPrefix)
	sb.WriteString(memory.RenderContext())
	sb.WriteString(contextSeparator)
	sb.WriteString(prompt)

	return PendingRequest{Prompt: prompt, Context: sb.String()}
}

// Complete sends prompt to the model and returns its reply. Empty prompts
// are ignored and return an empty reply with no error. Memory is only
// touched when a reply was fully received.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", nil
	}

	ctx, span := tracer.Start(ctx, "complete prompt")
	defer span.End()

	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	request := BuildRequest(c.memory, prompt)
	span.SetAttributes(attribute.Int("completion.context_length", len(request.Context)))

	reply, err := c.exchange(ctx, request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	c.memory.AppendExchange(prompt, reply)
	return reply, nil
}

func (c *CompletionClient) exchange(ctx context.Context, request PendingRequest) (string, error) {
	if c.model == nil {
		return "", fmt.Errorf("%w: no chat model configured", ErrTransport)
	}

	messages := request.Messages(c.persona)

	reply, err := c.model.Chat(ctx, messages)
	if err != nil && c.options.RetryOnTransportError && isTransport(err) && ctx.Err() == nil {
		logger.WarnContext(ctx, "retrying completion after transport failure", "error", err)
		reply, err = c.model.Chat(ctx, messages)
	}
	if err != nil {
		if !isTransport(err) && !errors.Is(err, ErrMalformedResponse) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		return "", err
	}

	return reply, nil
}

func isTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
