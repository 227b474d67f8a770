package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/llms"
)

type promptRequest struct {
	ctx    context.Context
	id     uuid.UUID
	prompt string
	result chan<- PromptResult
}

// PromptResult is the outcome of one submitted prompt.
type PromptResult struct {
	ExchangeID uuid.UUID
	Response   string
	Err        error
}

// SubmitPrompt queues prompt and waits for its reply. An empty prompt is
// ignored and returns an empty reply with no error.
func (s *Session) SubmitPrompt(ctx context.Context, prompt string) (string, error) {
	result := <-s.SubmitPromptAsync(ctx, prompt)
	return result.Response, result.Err
}

// SubmitPromptAsync queues prompt behind any prompts already waiting. The
// returned channel receives exactly one result. A full queue fails with
// ErrSessionBusy.
func (s *Session) SubmitPromptAsync(ctx context.Context, prompt string) <-chan PromptResult {
	result := make(chan PromptResult, 1)
	if strings.TrimSpace(prompt) == "" {
		result <- PromptResult{}
		return result
	}

	request := promptRequest{ctx: ctx, id: uuid.New(), prompt: prompt, result: result}

	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	if s.closed {
		result <- PromptResult{ExchangeID: request.id, Err: ErrSessionClosed}
		return result
	}

	select {
	case s.queue <- request:
	default:
		result <- PromptResult{ExchangeID: request.id, Err: ErrSessionBusy}
	}
	return result
}

func (s *Session) runDispatch() {
	defer close(s.dispatchDone)

	for request := range s.queue {
		if s.isClosed() {
			request.result <- PromptResult{ExchangeID: request.id, Err: ErrSessionClosed}
			continue
		}
		s.dispatch(request)
	}
}

func (s *Session) dispatch(request promptRequest) {
	s.dispatching.Store(true)

	ctx, span := tracer.Start(request.ctx, "dispatch prompt")
	span.SetAttributes(attribute.String("session.exchange_id", request.id.String()))

	s.emit(events.NewCompletionDispatched(request.id, request.prompt))

	var response string
	err := panicSafeNamedWorker("completion", func(ctx context.Context) error {
		if s.completer == nil {
			return fmt.Errorf("%w: no completion client configured", llms.ErrTransport)
		}

		var err error
		response, err = s.completer.Complete(ctx, request.prompt)
		return err
	})(ctx)

	if err != nil {
		if errors.Is(err, llms.ErrMalformedResponse) {
			logger.WarnContext(ctx, "completion reply unreadable, remote outcome unknown and nothing recorded",
				"exchange_id", request.id.String(), "error", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		completionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(KindOf(err)))))

		s.emit(events.NewCompletionFailed(request.id, request.prompt, err))
		s.finishDispatch(span, request, PromptResult{ExchangeID: request.id, Err: err})
		return
	}

	s.mu.Lock()
	s.lastResponse = response
	s.hasResponse = true
	s.mu.Unlock()

	completionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	s.emit(events.NewCompletionSucceeded(request.id, request.prompt, response))
	s.finishDispatch(span, request, PromptResult{ExchangeID: request.id, Response: response})
}

// finishDispatch ends the exchange before its result is delivered, so the
// submitter never observes the session still dispatching its own prompt.
func (s *Session) finishDispatch(span trace.Span, request promptRequest, result PromptResult) {
	span.End()
	s.dispatching.Store(false)
	request.result <- result
}
