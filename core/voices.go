package orchestration

import (
	"context"

	"github.com/koscakluka/ema-chat/core/events"
)

// LoadVoiceCatalog fetches the voice catalog and selects its first voice.
// On failure the catalog is emptied and speech stays disabled until a later
// load succeeds.
func (s *Session) LoadVoiceCatalog(ctx context.Context) error {
	return <-s.LoadVoiceCatalogAsync(ctx)
}

// LoadVoiceCatalogAsync loads the voice catalog on a worker. The returned
// channel receives exactly one error, nil on success.
func (s *Session) LoadVoiceCatalogAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)

	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	if s.closed {
		result <- ErrSessionClosed
		return result
	}
	if s.textToSpeech == nil {
		result <- ErrSpeechDisabled
		return result
	}

	jobCtx, cancel := withSessionCancel(ctx, s.baseContext)

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		defer cancel()

		result <- panicSafeNamedWorker("voice catalog", s.loadVoices)(jobCtx)
	}()

	return result
}

func (s *Session) loadVoices(ctx context.Context) error {
	voices, err := s.textToSpeech.FetchVoices(ctx)
	if err != nil {
		s.mu.Lock()
		s.voices = nil
		s.currentVoiceID = ""
		s.mu.Unlock()

		logger.WarnContext(ctx, "voice catalog unavailable, speech disabled", "error", err)
		s.emit(events.NewVoicesFailed(err))
		return err
	}

	s.mu.Lock()
	s.voices = copyVoices(voices)
	s.currentVoiceID = ""
	if len(voices) > 0 {
		s.currentVoiceID = voices[0].ID
	}
	s.mu.Unlock()

	s.emit(events.NewVoicesLoaded(s.Voices()))
	if len(voices) == 0 {
		logger.WarnContext(ctx, "voice catalog is empty, speech disabled")
		return nil
	}
	s.emit(events.NewVoiceSelected(voices[0]))
	return nil
}
