package conversations

import "strings"

// ContextV0 exposes the read side of the conversation to prompt builders.
type ContextV0 interface {
	// Past turns only. Ordering: oldest -> newest.
	History() []Turn

	// RenderContext flattens the history into a single prompt prefix.
	RenderContext() string
}

var _ ContextV0 = (*Memory)(nil)

// RenderContext concatenates every stored turn, in order, into the context
// string that precedes a new prompt. Empty memory renders as "".
func (m *Memory) RenderContext() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder
	for _, turn := range m.turns {
		sb.WriteString(turn.render())
	}
	return sb.String()
}

func (t Turn) render() string {
	switch t.Speaker {
	case SpeakerHuman:
		return "I said: '" + t.Text + "'. "
	case SpeakerAssistant:
		return "You said: '" + t.Text + "'. "
	default:
		return t.Text + " "
	}
}
