package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/ema-chat/core"
	"github.com/koscakluka/ema-chat/core/events"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	voiceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const helpText = "enter send • ctrl+s speak • tab voice • ctrl+r clear memory • ctrl+c quit"

type speaker int

const (
	speakerUser speaker = iota
	speakerAssistant
	speakerSystem
)

type transcriptLine struct {
	speaker speaker
	text    string
	failed  bool
}

type promptDoneMsg orchestration.PromptResult

type speechDoneMsg struct{ err error }

type voicesDoneMsg struct{ err error }

type sessionEventMsg struct{ event events.Event }

type model struct {
	ctx           context.Context
	session       *orchestration.Session
	events        <-chan events.Event
	speechEnabled bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []transcriptLine
	status     string
	pending    int
	speaking   bool
	width      int
	ready      bool
}

func newModel(ctx context.Context, session *orchestration.Session, eventsCh <-chan events.Event, speechEnabled bool) model {
	input := textinput.New()
	input.Placeholder = "Ask something..."
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	return model{
		ctx:           ctx,
		session:       session,
		events:        eventsCh,
		speechEnabled: speechEnabled,
		input:         input,
		spinner:       sp,
	}
}

func waitForSessionEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg{event: event}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, waitForSessionEvent(m.events)}
	if m.speechEnabled {
		cmds = append(cmds, m.loadVoices())
	}
	return tea.Batch(cmds...)
}

func (m model) submit(prompt string) tea.Cmd {
	result := m.session.SubmitPromptAsync(m.ctx, prompt)
	return func() tea.Msg { return promptDoneMsg(<-result) }
}

func (m model) speak() tea.Cmd {
	result := m.session.RequestSpeechAsync(m.ctx)
	return func() tea.Msg { return speechDoneMsg{err: <-result} }
}

func (m model) loadVoices() tea.Cmd {
	result := m.session.LoadVoiceCatalogAsync(m.ctx)
	return func() tea.Msg { return voicesDoneMsg{err: <-result} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - 4
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 4
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" {
				return m, nil
			}
			m.input.Reset()
			m.pending++
			m.append(transcriptLine{speaker: speakerUser, text: prompt})
			return m, m.submit(prompt)
		case "ctrl+s":
			m.speaking = true
			m.status = "Speaking..."
			return m, m.speak()
		case "ctrl+r":
			if m.session.ResetMemory() {
				m.status = "Memory Cleared."
			} else {
				m.status = "No memory to clear."
			}
			return m, nil
		case "tab":
			m.status = m.cycleVoice()
			return m, nil
		}

	case promptDoneMsg:
		m.pending--
		switch {
		case msg.Err != nil:
			m.append(transcriptLine{speaker: speakerSystem, text: orchestration.Describe(msg.Err), failed: true})
		case msg.Response != "":
			m.append(transcriptLine{speaker: speakerAssistant, text: msg.Response})
		}
		return m, nil

	case speechDoneMsg:
		if errors.Is(msg.err, orchestration.ErrSpeechBusy) {
			// The earlier request is still playing and owns the status.
			return m, nil
		}
		m.speaking = false
		m.status = ""
		if msg.err != nil {
			m.status = orchestration.Describe(msg.err)
		}
		return m, nil

	case voicesDoneMsg:
		if msg.err != nil {
			m.status = orchestration.Describe(msg.err)
		}
		return m, nil

	case sessionEventMsg:
		switch event := msg.event.(type) {
		case events.VoiceSelected:
			m.status = "Voice: " + event.Voice.Name
		case events.SpeechSynthesisStarted:
			m.status = "Synthesizing..."
		case events.SpeechPlaybackStarted:
			m.status = "Speaking..."
		}
		if msg.event.Kind().Namespace() == "speech" {
			m.speaking = msg.event.Kind() != events.KindSpeechEnded && msg.event.Kind() != events.KindSpeechFailed
		}
		return m, waitForSessionEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) cycleVoice() string {
	voices := m.session.Voices()
	if len(voices) == 0 {
		return "No voices available."
	}

	next := 0
	if current, ok := m.session.CurrentVoice(); ok {
		for i, voice := range voices {
			if voice.ID == current.ID {
				next = (i + 1) % len(voices)
				break
			}
		}
	}

	if err := m.session.SelectVoice(voices[next].ID); err != nil {
		return orchestration.Describe(err)
	}
	return "Voice: " + voices[next].Name
}

func (m *model) append(line transcriptLine) {
	m.transcript = append(m.transcript, line)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderTranscript(m.transcript, m.width))
	m.viewport.GotoBottom()
}

func renderTranscript(lines []transcriptLine, width int) string {
	var sb strings.Builder
	for _, line := range lines {
		var label string
		switch line.speaker {
		case speakerUser:
			label = userStyle.Render("You: ")
		case speakerAssistant:
			label = assistantStyle.Render("AI: ")
		default:
			label = errorStyle.Render("! ")
		}

		text := line.text
		if width > 8 {
			text = wordwrap.String(text, width-6)
		}
		sb.WriteString(label)
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m model) View() string {
	if !m.ready {
		return "\n  Starting..."
	}

	status := m.status
	if m.pending > 0 {
		status = fmt.Sprintf("%s Waiting for reply (%d)... %s", m.spinner.View(), m.pending, status)
	} else if m.speaking {
		status = m.spinner.View() + " " + status
	}

	voice := "speech off"
	if current, ok := m.session.CurrentVoice(); ok {
		voice = current.Name
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
		statusStyle.Render(status)+"  "+voiceStyle.Render("["+voice+"]"),
		statusStyle.Render(helpText),
	)
}
