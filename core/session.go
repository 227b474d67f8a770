package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"

	"github.com/koscakluka/ema-chat/core/conversations"
	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

type State string

const (
	StateIdle        State = "idle"
	StateDispatching State = "dispatching"
)

// Session is a single conversation with the assistant. Prompts are answered
// one at a time in submission order; speech and voice catalog loads run on
// their own workers.
type Session struct {
	completer    Completer
	textToSpeech TextToSpeech
	player       AudioPlayer
	listeners    []func(events.Event)
	emit         eventEmitter

	queueSize        int
	synthesisTimeout time.Duration
	voiceSettings    texttospeech.VoiceSettings

	queue chan promptRequest
	// submitMu orders submissions against Close so nothing is queued after
	// the dispatch worker stopped.
	submitMu sync.RWMutex
	closed   bool

	baseContext  context.Context
	cancel       context.CancelFunc
	closeOnce    sync.Once
	dispatchDone chan struct{}
	workers      sync.WaitGroup

	dispatching atomic.Bool
	speaking    atomic.Bool

	mu             sync.RWMutex
	lastResponse   string
	hasResponse    bool
	currentVoiceID string
	voices         []texttospeech.Voice
}

// NewSession starts a session answering prompts with completer. Without a
// text-to-speech client and audio player, speech stays disabled.
func NewSession(completer Completer, opts ...SessionOption) *Session {
	s := &Session{
		completer:        completer,
		queueSize:        DefaultQueueSize,
		synthesisTimeout: DefaultSynthesisTimeout,
		voiceSettings:    texttospeech.DefaultVoiceSettings(),
		dispatchDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.emit = newListenerEventEmitter(s.listeners)
	s.queue = make(chan promptRequest, s.queueSize)
	s.baseContext, s.cancel = context.WithCancel(context.Background())

	go s.runDispatch()

	return s
}

// Close rejects further work, fails prompts still waiting in the queue and
// waits for the running exchange and any speech or catalog workers. Running
// playback is interrupted.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.submitMu.Lock()
		s.closed = true
		close(s.queue)
		s.submitMu.Unlock()

		<-s.dispatchDone
		s.cancel()
		s.workers.Wait()
	})
}

func (s *Session) isClosed() bool {
	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	return s.closed
}

func (s *Session) State() State {
	if s.dispatching.Load() {
		return StateDispatching
	}
	return StateIdle
}

func (s *Session) IsSpeaking() bool {
	return s.speaking.Load()
}

// LastResponse returns the most recent successful reply. The second value
// is false until the first prompt succeeds.
func (s *Session) LastResponse() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResponse, s.hasResponse
}

func (s *Session) History() []conversations.Turn {
	memory := s.memory()
	if memory == nil {
		return nil
	}
	return memory.History()
}

// ResetMemory clears the conversation memory and reports whether there was
// anything to clear. The last response stays available for speech.
func (s *Session) ResetMemory() bool {
	cleared := false
	if memory := s.memory(); memory != nil {
		cleared = memory.Clear()
	}

	s.emit(events.NewMemoryReset(cleared))
	return cleared
}

func (s *Session) memory() *conversations.Memory {
	if s.completer == nil {
		return nil
	}
	return s.completer.Memory()
}

// Voices returns a copy of the loaded voice catalog in catalog order.
func (s *Session) Voices() []texttospeech.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyVoices(s.voices)
}

// copyVoices deep copies voices so callers never share label maps with the
// session.
func copyVoices(voices []texttospeech.Voice) []texttospeech.Voice {
	copied := []texttospeech.Voice{}
	if err := copier.CopyWithOption(&copied, &voices, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy voice catalog", "error", err)
		return nil
	}
	return copied
}

// CurrentVoice returns the selected voice. The second value is false while
// speech is disabled.
func (s *Session) CurrentVoice() (texttospeech.Voice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, voice := range s.voices {
		if voice.ID == s.currentVoiceID {
			return voice, true
		}
	}
	return texttospeech.Voice{}, false
}

func (s *Session) SelectVoice(id string) error {
	s.mu.Lock()
	var selected texttospeech.Voice
	found := false
	for _, voice := range s.voices {
		if voice.ID == id {
			selected, found = voice, true
			break
		}
	}
	if found {
		s.currentVoiceID = id
	}
	s.mu.Unlock()

	if !found {
		return ErrUnknownVoice
	}

	s.emit(events.NewVoiceSelected(selected))
	return nil
}
