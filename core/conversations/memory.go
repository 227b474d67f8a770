package conversations

import "sync"

type Speaker string

const (
	SpeakerHuman     Speaker = "human"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is a single message exchanged in the conversation. Turns are values,
// every accessor hands out copies.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Memory is the append-only, in-process record of the conversation. It is
// safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(speaker Speaker, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, Turn{Speaker: speaker, Text: text})
}

// AppendExchange records a completed exchange. Both turns are appended under
// one lock so concurrent exchanges can never interleave their pairs.
func (m *Memory) AppendExchange(prompt, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns,
		Turn{Speaker: SpeakerHuman, Text: prompt},
		Turn{Speaker: SpeakerAssistant, Text: reply},
	)
}

// Clear empties the memory and reports whether there was anything to clear.
func (m *Memory) Clear() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.turns) == 0 {
		return false
	}

	m.turns = nil
	return true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.turns)
}

// History returns past turns, oldest first.
func (m *Memory) History() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]Turn, len(m.turns))
	copy(history, m.turns)
	return history
}
