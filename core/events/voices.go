package events

import "github.com/koscakluka/ema-chat/core/texttospeech"

const (
	// KindVoicesLoaded identifies a successfully loaded voice catalog.
	KindVoicesLoaded Kind = "voices.loaded"
	// KindVoicesFailed identifies a failed catalog load.
	KindVoicesFailed Kind = "voices.failed"
	// KindVoiceSelected identifies a change of the current voice.
	KindVoiceSelected Kind = "voice.selected"
)

// VoicesLoaded carries the loaded catalog in catalog order.
type VoicesLoaded struct {
	Base
	Voices []texttospeech.Voice
}

// NewVoicesLoaded creates a voices loaded event.
func NewVoicesLoaded(voices []texttospeech.Voice) VoicesLoaded {
	return VoicesLoaded{Base: NewBase(KindVoicesLoaded), Voices: voices}
}

// VoicesFailed carries the reason a catalog load failed.
type VoicesFailed struct {
	Base
	Err error
}

// NewVoicesFailed creates a voices failed event.
func NewVoicesFailed(err error) VoicesFailed {
	return VoicesFailed{Base: NewBase(KindVoicesFailed), Err: err}
}

// VoiceSelected carries the newly selected voice.
type VoiceSelected struct {
	Base
	Voice texttospeech.Voice
}

// NewVoiceSelected creates a voice selected event.
func NewVoiceSelected(voice texttospeech.Voice) VoiceSelected {
	return VoiceSelected{Base: NewBase(KindVoiceSelected), Voice: voice}
}
