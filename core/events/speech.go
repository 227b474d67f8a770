package events

import "github.com/google/uuid"

const (
	// KindSpeechSynthesisStarted identifies the start of speech synthesis.
	KindSpeechSynthesisStarted Kind = "speech.synthesis_started"
	// KindSpeechPlaybackStarted identifies the start of artifact playback.
	KindSpeechPlaybackStarted Kind = "speech.playback_started"
	// KindSpeechEnded identifies the end of playback.
	KindSpeechEnded Kind = "speech.ended"
	// KindSpeechFailed identifies a failed speech request.
	KindSpeechFailed Kind = "speech.failed"
)

// SpeechSynthesisStarted marks the start of synthesizing Text with VoiceID.
type SpeechSynthesisStarted struct {
	Base
	ExchangeID uuid.UUID
	Text       string
	VoiceID    string
}

// NewSpeechSynthesisStarted creates a speech synthesis started event.
func NewSpeechSynthesisStarted(exchangeID uuid.UUID, text, voiceID string) SpeechSynthesisStarted {
	return SpeechSynthesisStarted{Base: NewBase(KindSpeechSynthesisStarted), ExchangeID: exchangeID, Text: text, VoiceID: voiceID}
}

// SpeechPlaybackStarted marks the start of playing the synthesized artifact.
type SpeechPlaybackStarted struct {
	Base
	ExchangeID uuid.UUID
	Artifact   string
}

// NewSpeechPlaybackStarted creates a speech playback started event.
func NewSpeechPlaybackStarted(exchangeID uuid.UUID, artifact string) SpeechPlaybackStarted {
	return SpeechPlaybackStarted{Base: NewBase(KindSpeechPlaybackStarted), ExchangeID: exchangeID, Artifact: artifact}
}

// SpeechEnded marks the end of playback.
type SpeechEnded struct {
	Base
	ExchangeID uuid.UUID
}

// NewSpeechEnded creates a speech ended event.
func NewSpeechEnded(exchangeID uuid.UUID) SpeechEnded {
	return SpeechEnded{Base: NewBase(KindSpeechEnded), ExchangeID: exchangeID}
}

// SpeechFailed carries the failing stage ("synthesis" or "playback") and
// the reason.
type SpeechFailed struct {
	Base
	ExchangeID uuid.UUID
	Stage      string
	Err        error
}

// NewSpeechFailed creates a speech failed event.
func NewSpeechFailed(exchangeID uuid.UUID, stage string, err error) SpeechFailed {
	return SpeechFailed{Base: NewBase(KindSpeechFailed), ExchangeID: exchangeID, Stage: stage, Err: err}
}
