package orchestration

import (
	"context"
	"time"

	"github.com/koscakluka/ema-chat/core/audio"
	"github.com/koscakluka/ema-chat/core/conversations"
	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

const (
	DefaultQueueSize        = 16
	DefaultSynthesisTimeout = 120 * time.Second
)

type SessionOption func(*Session)

// Completer produces a reply for a prompt and records the exchange in its
// memory on success.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Memory() *conversations.Memory
}

type TextToSpeech interface {
	FetchVoices(ctx context.Context) ([]texttospeech.Voice, error)
	Synthesize(ctx context.Context, text string, voiceID string, settings texttospeech.VoiceSettings) (audio.Artifact, error)
}

func WithTextToSpeech(client TextToSpeech) SessionOption {
	return func(s *Session) { s.textToSpeech = client }
}

type AudioPlayer interface {
	Play(ctx context.Context, artifact audio.Artifact) error
}

func WithAudioPlayer(player AudioPlayer) SessionOption {
	return func(s *Session) { s.player = player }
}

// WithEventListener registers a listener for session events. Listeners run
// on the worker that produced the event and must not block for long.
func WithEventListener(listener func(events.Event)) SessionOption {
	return func(s *Session) {
		if listener != nil {
			s.listeners = append(s.listeners, listener)
		}
	}
}

func WithQueueSize(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSynthesisTimeout bounds a single synthesis request. Zero disables the
// bound.
func WithSynthesisTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) {
		if timeout >= 0 {
			s.synthesisTimeout = timeout
		}
	}
}

func WithVoiceSettings(settings texttospeech.VoiceSettings) SessionOption {
	return func(s *Session) { s.voiceSettings = settings }
}
