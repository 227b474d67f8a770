package events

import "github.com/google/uuid"

const (
	// KindCompletionDispatched identifies a prompt being sent to the model.
	KindCompletionDispatched Kind = "completion.dispatched"
	// KindCompletionSucceeded identifies a recorded reply.
	KindCompletionSucceeded Kind = "completion.succeeded"
	// KindCompletionFailed identifies a failed exchange.
	KindCompletionFailed Kind = "completion.failed"
)

// CompletionDispatched marks the start of a completion exchange.
type CompletionDispatched struct {
	Base
	ExchangeID uuid.UUID
	Prompt     string
}

// NewCompletionDispatched creates a completion dispatched event.
func NewCompletionDispatched(exchangeID uuid.UUID, prompt string) CompletionDispatched {
	return CompletionDispatched{Base: NewBase(KindCompletionDispatched), ExchangeID: exchangeID, Prompt: prompt}
}

// CompletionSucceeded carries the reply of a completion exchange.
type CompletionSucceeded struct {
	Base
	ExchangeID uuid.UUID
	Prompt     string
	Response   string
}

// NewCompletionSucceeded creates a completion succeeded event.
func NewCompletionSucceeded(exchangeID uuid.UUID, prompt, response string) CompletionSucceeded {
	return CompletionSucceeded{Base: NewBase(KindCompletionSucceeded), ExchangeID: exchangeID, Prompt: prompt, Response: response}
}

// CompletionFailed carries the reason a completion exchange failed.
type CompletionFailed struct {
	Base
	ExchangeID uuid.UUID
	Prompt     string
	Err        error
}

// NewCompletionFailed creates a completion failed event.
func NewCompletionFailed(exchangeID uuid.UUID, prompt string, err error) CompletionFailed {
	return CompletionFailed{Base: NewBase(KindCompletionFailed), ExchangeID: exchangeID, Prompt: prompt, Err: err}
}
