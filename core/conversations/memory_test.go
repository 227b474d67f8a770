package conversations

import (
	"strings"
	"sync"
	"testing"
)

func TestMemoryAppendExchangeKeepsPairOrder(t *testing.T) {
	memory := NewMemory()

	memory.AppendExchange("hi", "hello")
	memory.AppendExchange("how are you", "fine")

	history := memory.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(history))
	}

	expected := []Turn{
		{Speaker: SpeakerHuman, Text: "hi"},
		{Speaker: SpeakerAssistant, Text: "hello"},
		{Speaker: SpeakerHuman, Text: "how are you"},
		{Speaker: SpeakerAssistant, Text: "fine"},
	}
	for i, turn := range expected {
		if history[i] != turn {
			t.Fatalf("expected turn %d to be %+v, got %+v", i, turn, history[i])
		}
	}
}

func TestMemoryRenderContextEmpty(t *testing.T) {
	memory := NewMemory()

	if got := memory.RenderContext(); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestMemoryRenderContextPreservesOrder(t *testing.T) {
	memory := NewMemory()
	memory.Append(SpeakerHuman, "a")
	memory.Append(SpeakerAssistant, "b")

	rendered := memory.RenderContext()

	first := strings.Index(rendered, "a")
	second := strings.Index(rendered, "b")
	if first < 0 || second < 0 {
		t.Fatalf("expected context to contain both turns, got %q", rendered)
	}
	if first > second {
		t.Fatalf("expected %q before %q in %q", "a", "b", rendered)
	}
	if memory.Len() != 2 {
		t.Fatalf("expected rendering not to mutate memory, got %d turns", memory.Len())
	}
}

func TestMemoryRenderContextUsesSpeakerWording(t *testing.T) {
	memory := NewMemory()
	memory.AppendExchange("hi", "hello")

	expected := "I said: 'hi'. You said: 'hello'. "
	if got := memory.RenderContext(); got != expected {
		t.Fatalf("expected context %q, got %q", expected, got)
	}
}

func TestMemoryClearIsIdempotent(t *testing.T) {
	memory := NewMemory()
	memory.AppendExchange("hi", "hello")

	if cleared := memory.Clear(); !cleared {
		t.Fatalf("expected first clear to report cleared memory")
	}
	if memory.Len() != 0 {
		t.Fatalf("expected empty memory after clear, got %d turns", memory.Len())
	}

	if cleared := memory.Clear(); cleared {
		t.Fatalf("expected second clear to report nothing to clear")
	}
	if memory.Len() != 0 {
		t.Fatalf("expected empty memory after second clear, got %d turns", memory.Len())
	}
}

func TestMemoryHistoryReturnsCopy(t *testing.T) {
	memory := NewMemory()
	memory.AppendExchange("hi", "hello")

	history := memory.History()
	history[0].Text = "changed"

	if got := memory.History()[0].Text; got != "hi" {
		t.Fatalf("expected stored turn to stay %q, got %q", "hi", got)
	}
}

func TestMemoryConcurrentExchangesNeverInterleave(t *testing.T) {
	memory := NewMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			memory.AppendExchange("prompt", "reply")
		}()
	}
	wg.Wait()

	history := memory.History()
	if len(history) != 100 {
		t.Fatalf("expected 100 turns, got %d", len(history))
	}
	for i, turn := range history {
		expected := SpeakerHuman
		if i%2 == 1 {
			expected = SpeakerAssistant
		}
		if turn.Speaker != expected {
			t.Fatalf("expected turn %d from %q, got %q", i, expected, turn.Speaker)
		}
	}
}
