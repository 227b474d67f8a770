package orchestration

import (
	"errors"
	"fmt"

	"github.com/koscakluka/ema-chat/core/audio"
	"github.com/koscakluka/ema-chat/core/llms"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

var (
	ErrNoResponseYet  = errors.New("no response to speak yet")
	ErrSessionBusy    = errors.New("session queue is full")
	ErrSpeechBusy     = errors.New("speech already in progress")
	ErrSpeechDisabled = errors.New("speech is disabled, no voice selected")
	ErrUnknownVoice   = errors.New("unknown voice")
	ErrSessionClosed  = errors.New("session closed")
)

type SpeechStage string

const (
	StageSynthesis SpeechStage = "synthesis"
	StagePlayback  SpeechStage = "playback"
)

// SpeechError names the stage of a speech request that failed.
type SpeechError struct {
	Stage SpeechStage
	Err   error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech %s failed: %v", e.Stage, e.Err)
}

func (e *SpeechError) Unwrap() error { return e.Err }

type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindTransport         ErrorKind = "transport"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindResource          ErrorKind = "resource"
	KindState             ErrorKind = "state"
	KindUnknown           ErrorKind = "unknown"
)

// KindOf sorts any error returned by the session into one of the error
// kinds. A nil error has KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, llms.ErrTransport), errors.Is(err, texttospeech.ErrTransport):
		return KindTransport
	case errors.Is(err, llms.ErrMalformedResponse), errors.Is(err, texttospeech.ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, texttospeech.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, audio.ErrLoadFailed), errors.Is(err, audio.ErrDeviceUnavailable),
		errors.Is(err, audio.ErrDeviceBusy), errors.Is(err, audio.ErrPlaybackInterrupted),
		errors.Is(err, audio.ErrStorage):
		return KindResource
	case errors.Is(err, ErrNoResponseYet), errors.Is(err, ErrSessionBusy),
		errors.Is(err, ErrSpeechBusy), errors.Is(err, ErrSpeechDisabled),
		errors.Is(err, ErrUnknownVoice), errors.Is(err, ErrSessionClosed):
		return KindState
	default:
		return KindUnknown
	}
}

// Describe returns a short message for err suitable for showing to a user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var speechErr *SpeechError
	isSpeech := errors.As(err, &speechErr)

	switch KindOf(err) {
	case KindTransport:
		if isSpeech {
			return "Could not reach the speech service. Please try again."
		}
		if errors.Is(err, texttospeech.ErrTransport) {
			return "Could not load voices from the speech service."
		}
		return "Could not reach the assistant. Please try again."
	case KindMalformedResponse:
		if errors.Is(err, texttospeech.ErrMalformedResponse) {
			return "The speech service sent a response that could not be read."
		}
		return "The assistant's reply could not be read. It may have answered, but nothing was recorded."
	case KindInvalidInput:
		return "There is nothing to say, or the voice settings are invalid."
	case KindResource:
		switch {
		case errors.Is(err, audio.ErrDeviceBusy):
			return "The audio device is busy."
		case errors.Is(err, audio.ErrDeviceUnavailable):
			return "The audio device could not be opened."
		case errors.Is(err, audio.ErrPlaybackInterrupted):
			return "Playback was interrupted."
		case errors.Is(err, audio.ErrLoadFailed):
			return "The synthesized audio could not be played."
		}
		if isSpeech && speechErr.Stage == StageSynthesis {
			return "The synthesized audio could not be saved."
		}
		return "An audio file operation failed."
	case KindState:
		switch {
		case errors.Is(err, ErrNoResponseYet):
			return "There is no response to speak yet."
		case errors.Is(err, ErrSessionBusy):
			return "Too many prompts are waiting. Please wait for a reply."
		case errors.Is(err, ErrSpeechBusy):
			return "Already speaking."
		case errors.Is(err, ErrSpeechDisabled):
			return "Speech is disabled because no voice is available."
		case errors.Is(err, ErrUnknownVoice):
			return "That voice is not available."
		default:
			return "The session has been closed."
		}
	default:
		if isSpeech {
			return fmt.Sprintf("Speech %s failed.", speechErr.Stage)
		}
		return "Something went wrong."
	}
}
