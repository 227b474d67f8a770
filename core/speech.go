package orchestration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

// RequestSpeech synthesizes the last response with the current voice and
// plays it, returning once playback has ended.
func (s *Session) RequestSpeech(ctx context.Context) error {
	return <-s.RequestSpeechAsync(ctx)
}

// RequestSpeechAsync starts speaking the last response on a worker. The
// returned channel receives exactly one error, nil on success. Failures of
// the worker are *SpeechError values naming the failing stage.
func (s *Session) RequestSpeechAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)

	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	if s.closed {
		result <- ErrSessionClosed
		return result
	}

	s.mu.RLock()
	text, hasResponse := s.lastResponse, s.hasResponse
	voiceID := s.currentVoiceID
	settings := s.voiceSettings
	s.mu.RUnlock()

	switch {
	case !hasResponse:
		result <- ErrNoResponseYet
		return result
	case s.textToSpeech == nil || s.player == nil || voiceID == "":
		result <- ErrSpeechDisabled
		return result
	case !s.speaking.CompareAndSwap(false, true):
		result <- ErrSpeechBusy
		return result
	}

	id := uuid.New()
	jobCtx, cancel := withSessionCancel(ctx, s.baseContext)

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		defer cancel()

		err := panicSafeNamedWorker("speech", func(ctx context.Context) error {
			return s.speak(ctx, id, text, voiceID, settings)
		})(jobCtx)

		outcome := "success"
		if err != nil {
			outcome = string(KindOf(err))
			stage := ""
			var speechErr *SpeechError
			if errors.As(err, &speechErr) {
				stage = string(speechErr.Stage)
				err = speechErr
			}
			s.emit(events.NewSpeechFailed(id, stage, err))
		}
		speechCounter.Add(jobCtx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

		// speaking is cleared before the caller can see the result.
		s.speaking.Store(false)
		result <- err
	}()

	return result
}

func (s *Session) speak(ctx context.Context, id uuid.UUID, text, voiceID string, settings texttospeech.VoiceSettings) (err error) {
	ctx, span := tracer.Start(ctx, "speak last response")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.exchange_id", id.String()),
		attribute.String("tts.voice_id", voiceID),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	s.emit(events.NewSpeechSynthesisStarted(id, text, voiceID))

	synthesisCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.synthesisTimeout > 0 {
		synthesisCtx, cancel = context.WithTimeout(ctx, s.synthesisTimeout)
	}
	artifact, err := s.textToSpeech.Synthesize(synthesisCtx, text, voiceID, settings)
	cancel()
	if err != nil {
		return &SpeechError{Stage: StageSynthesis, Err: err}
	}
	defer func() {
		if removeErr := artifact.Remove(); removeErr != nil {
			logger.WarnContext(ctx, "failed to remove speech artifact", "path", artifact.Path, "error", removeErr)
		}
	}()

	s.emit(events.NewSpeechPlaybackStarted(id, artifact.Path))
	if err := s.player.Play(ctx, artifact); err != nil {
		return &SpeechError{Stage: StagePlayback, Err: err}
	}

	s.emit(events.NewSpeechEnded(id))
	return nil
}
