// Package tui implements the interactive terminal chat for the assistant.
// It renders a scrolling transcript, runs each turn through the
// orchestration loop off the UI goroutine, and persists finished turns to
// the history store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morgenstille/bethere/internal/agent"
	"github.com/morgenstille/bethere/internal/history"
	"github.com/morgenstille/bethere/internal/logging"
)

const inputCharLimit = 2000

// TurnRunner runs one conversation turn. *agent.Loop satisfies it.
type TurnRunner interface {
	Run(ctx context.Context, transcript []agent.Message, userMessage string) (string, []agent.Message, error)
}

// Config wires the chat UI to its collaborators.
type Config struct {
	// Runner executes a turn. Required.
	Runner TurnRunner

	// Store persists finished turns. Optional; persistence failures are
	// logged and never interrupt the conversation.
	Store *history.Store

	// SessionID identifies this conversation in the history store.
	SessionID string

	// Transcript seeds the conversation, usually the system prompt plus
	// any replayed history.
	Transcript []agent.Message

	// Logger receives UI-side warnings. Defaults to the process logger.
	Logger logging.Logger
}

// Run starts the chat program and blocks until the user quits.
func Run(cfg Config) error {
	if cfg.Runner == nil {
		return fmt.Errorf("turn runner is required")
	}
	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

const (
	speakerUser      = "you"
	speakerAssistant = "bethere"
	speakerError     = "error"
)

type chatEntry struct {
	speaker string
	text    string
}

type turnDoneMsg struct {
	answer     string
	transcript []agent.Message
	err        error
}

type uiTheme struct {
	header      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	help        lipgloss.Style
	content     lipgloss.Style
	speakers    map[string]lipgloss.Style
}

func newTheme() uiTheme {
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	pink := lipgloss.Color("#ff71ce")
	muted := lipgloss.Color("#9ca3d8")

	return uiTheme{
		header: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(mint),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		help:        lipgloss.NewStyle().Foreground(muted),
		content:     lipgloss.NewStyle().Padding(0, 1),
		speakers: map[string]lipgloss.Style{
			speakerUser:      lipgloss.NewStyle().Foreground(mint).Bold(true),
			speakerAssistant: lipgloss.NewStyle().Foreground(blue).Bold(true),
			speakerError:     lipgloss.NewStyle().Foreground(pink).Bold(true),
		},
	}
}

type model struct {
	cfg    Config
	logger logging.Logger

	transcript []agent.Message
	entries    []chatEntry

	ready      bool
	inflight   bool
	statusLine string
	statusErr  bool

	width  int
	height int

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model
	theme    uiTheme
}

func newModel(cfg Config) model {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = inputCharLimit
	input.Placeholder = "Ask about your calendar or travel times"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	return model{
		cfg:        cfg,
		logger:     logger,
		transcript: cfg.Transcript,
		entries: []chatEntry{
			{speaker: speakerAssistant, text: "Hi! Ask me about your calendar or travel times."},
		},
		statusLine: "ready",
		input:      input,
		timeline:   viewport.New(0, 0),
		spinner:    sp,
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.timeline.Width = msg.Width
		// Header, status, input, and help each take one line.
		m.timeline.Height = max(1, msg.Height-4)
		m.input.Width = max(10, msg.Width-4)
		m.ready = true
		m.syncTimeline()

	case spinner.TickMsg:
		if m.inflight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case turnDoneMsg:
		m.inflight = false
		if msg.err != nil {
			m.logger.Warn("turn failed", logging.Err(msg.err))
			m.entries = append(m.entries, chatEntry{
				speaker: speakerError,
				text:    fmt.Sprintf("Something went wrong: %v", msg.err),
			})
			m.setStatus("turn failed", true)
		} else {
			m.transcript = msg.transcript
			m.entries = append(m.entries, chatEntry{speaker: speakerAssistant, text: msg.answer})
			m.setStatus("ready", false)
		}
		m.syncTimeline()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd, m.spinner.Tick)
				m.syncTimeline()
			}
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit takes the current input line and starts a turn. It returns nil when
// there is nothing to send or a turn is already running.
func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.inflight {
		return nil
	}

	m.entries = append(m.entries, chatEntry{speaker: speakerUser, text: text})
	m.input.Reset()
	m.inflight = true
	m.setStatus("thinking", false)
	return m.turnCmd(text)
}

// turnCmd runs one turn off the UI goroutine and persists its messages.
func (m model) turnCmd(text string) tea.Cmd {
	runner := m.cfg.Runner
	store := m.cfg.Store
	sessionID := m.cfg.SessionID
	transcript := m.transcript
	logger := m.logger

	return func() tea.Msg {
		ctx := context.Background()
		answer, updated, err := runner.Run(ctx, transcript, text)
		if err != nil {
			return turnDoneMsg{err: err}
		}
		if store != nil {
			if storeErr := store.AppendAll(ctx, sessionID, updated[len(transcript):]); storeErr != nil {
				logger.Warn("failed to persist turn",
					logging.Session(sessionID),
					logging.Err(storeErr))
			}
		}
		return turnDoneMsg{answer: answer, transcript: updated}
	}
}

func (m *model) setStatus(line string, isErr bool) {
	m.statusLine = line
	m.statusErr = isErr
}

// syncTimeline re-renders the transcript into the viewport and pins the view
// to the latest entry.
func (m *model) syncTimeline() {
	width := max(20, m.width-2)
	var b strings.Builder
	for i, entry := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label, ok := m.theme.speakers[entry.speaker]
		if !ok {
			label = m.theme.speakers[speakerAssistant]
		}
		b.WriteString(label.Render(entry.speaker))
		b.WriteString("\n")
		b.WriteString(m.theme.content.Width(width).Render(entry.text))
	}
	m.timeline.SetContent(b.String())
	m.timeline.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "\n  starting..."
	}

	status := m.theme.status.Render(m.statusLine)
	if m.statusErr {
		status = m.theme.errorStatus.Render(m.statusLine)
	}
	if m.inflight {
		status = m.spinner.View() + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.header.Render("bethere · calendar and travel assistant"),
		m.timeline.View(),
		status,
		m.input.View(),
		m.theme.help.Render("enter send · esc quit"),
	)
}
