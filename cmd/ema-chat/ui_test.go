package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	orchestration "github.com/koscakluka/ema-chat/core"
	"github.com/koscakluka/ema-chat/core/events"
	"github.com/koscakluka/ema-chat/core/llms"
)

type echoModel struct{}

func (echoModel) Chat(_ context.Context, messages []llms.Message) (string, error) {
	return "echo", nil
}

func newTestModel(t *testing.T) model {
	t.Helper()

	session := orchestration.NewSession(llms.NewCompletionClient(echoModel{}, nil, "helpful"))
	t.Cleanup(session.Close)

	m := newModel(context.Background(), session, make(chan events.Event), false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model)
}

func TestClearMemoryReportsWhetherAnythingWasCleared(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(model)
	if m.status != "No memory to clear." {
		t.Fatalf("expected empty memory status, got %q", m.status)
	}

	if _, err := m.session.SubmitPrompt(context.Background(), "hi"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(model)
	if m.status != "Memory Cleared." {
		t.Fatalf("expected cleared status, got %q", m.status)
	}
}

func TestPromptResultIsAppendedToTranscript(t *testing.T) {
	m := newTestModel(t)
	m.pending = 1

	updated, _ := m.Update(promptDoneMsg{Response: "hello there"})
	m = updated.(model)

	if m.pending != 0 {
		t.Fatalf("expected no pending prompts, got %d", m.pending)
	}
	if len(m.transcript) != 1 || m.transcript[0].speaker != speakerAssistant {
		t.Fatalf("expected one assistant line, got %+v", m.transcript)
	}
}

func TestFailedPromptShowsDescription(t *testing.T) {
	m := newTestModel(t)
	m.pending = 1

	updated, _ := m.Update(promptDoneMsg{Err: llms.ErrTransport})
	m = updated.(model)

	if len(m.transcript) != 1 || !m.transcript[0].failed {
		t.Fatalf("expected one failed line, got %+v", m.transcript)
	}
	if m.transcript[0].text != orchestration.Describe(llms.ErrTransport) {
		t.Fatalf("unexpected failure text %q", m.transcript[0].text)
	}
}

func TestCycleVoiceWithoutCatalog(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if status := updated.(model).status; status != "No voices available." {
		t.Fatalf("expected no voices status, got %q", status)
	}
}

func TestRenderTranscriptWrapsLongLines(t *testing.T) {
	long := strings.Repeat("word ", 40)
	rendered := renderTranscript([]transcriptLine{{speaker: speakerAssistant, text: long}}, 40)

	if lines := strings.Count(rendered, "\n"); lines < 5 {
		t.Fatalf("expected long reply to wrap over several lines, got %d", lines)
	}
}

func TestSpeechEventsDriveSpeakingStatus(t *testing.T) {
	m := newTestModel(t)
	id := uuid.New()

	updated, _ := m.Update(sessionEventMsg{event: events.NewSpeechPlaybackStarted(id, "speech.mp3")})
	m = updated.(model)
	if !m.speaking || m.status != "Speaking..." {
		t.Fatalf("expected speaking status, got %v %q", m.speaking, m.status)
	}

	updated, _ = m.Update(sessionEventMsg{event: events.NewSpeechEnded(id)})
	m = updated.(model)
	if m.speaking {
		t.Fatalf("expected speaking to stop after speech ended")
	}
}

func TestBusySpeechResultKeepsRunningSpeech(t *testing.T) {
	m := newTestModel(t)
	m.speaking = true
	m.status = "Speaking..."

	updated, _ := m.Update(speechDoneMsg{err: orchestration.ErrSpeechBusy})
	m = updated.(model)
	if !m.speaking || m.status != "Speaking..." {
		t.Fatalf("expected running speech to keep its status, got %v %q", m.speaking, m.status)
	}

	updated, _ = m.Update(speechDoneMsg{})
	m = updated.(model)
	if m.speaking || m.status != "" {
		t.Fatalf("expected speech to finish, got %v %q", m.speaking, m.status)
	}
}
