package events

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/koscakluka/ema-chat/core/texttospeech"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	id := uuid.New()
	err := errors.New("boom")

	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "completion dispatched", event: NewCompletionDispatched(id, "hi"), expected: KindCompletionDispatched},
		{name: "completion succeeded", event: NewCompletionSucceeded(id, "hi", "hello"), expected: KindCompletionSucceeded},
		{name: "completion failed", event: NewCompletionFailed(id, "hi", err), expected: KindCompletionFailed},
		{name: "speech synthesis started", event: NewSpeechSynthesisStarted(id, "hello", "v1"), expected: KindSpeechSynthesisStarted},
		{name: "speech playback started", event: NewSpeechPlaybackStarted(id, "/tmp/speech.mp3"), expected: KindSpeechPlaybackStarted},
		{name: "speech ended", event: NewSpeechEnded(id), expected: KindSpeechEnded},
		{name: "speech failed", event: NewSpeechFailed(id, "playback", err), expected: KindSpeechFailed},
		{name: "voices loaded", event: NewVoicesLoaded([]texttospeech.Voice{{ID: "v1", Name: "Rachel"}}), expected: KindVoicesLoaded},
		{name: "voices failed", event: NewVoicesFailed(err), expected: KindVoicesFailed},
		{name: "voice selected", event: NewVoiceSelected(texttospeech.Voice{ID: "v1"}), expected: KindVoiceSelected},
		{name: "memory reset", event: NewMemoryReset(true), expected: KindMemoryReset},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected event timestamp to be set")
			}
		})
	}
}

func TestSpeechEndedAndFailedKindsAreDistinct(t *testing.T) {
	ended := NewSpeechEnded(uuid.New())
	failed := NewSpeechFailed(uuid.New(), "synthesis", errors.New("boom"))

	if ended.Kind() == failed.Kind() {
		t.Fatalf("expected speech ended and speech failed kinds to differ, both were %q", ended.Kind())
	}
}

func TestKindNamespace(t *testing.T) {
	testCases := map[Kind]string{
		KindCompletionSucceeded:   "completion",
		KindSpeechPlaybackStarted: "speech",
		KindVoiceSelected:         "voice",
		KindMemoryReset:           "memory",
		Kind("bare"):              "bare",
	}

	for kind, expected := range testCases {
		if got := kind.Namespace(); got != expected {
			t.Fatalf("expected namespace %q for %q, got %q", expected, kind, got)
		}
	}
}
