// Package tui renders the calculator keypad in a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-chi-calculator/internal/calculator"
)

// Config configures the keypad.
type Config struct {
	// RemoteURL selects a RemoteBackend when set.
	RemoteURL string
	ShowHelp  bool
}

// pressedMsg carries the outcome of one backend press.
type pressedMsg struct {
	key     calculator.Key
	display string
	err     error
}

// Model is the bubbletea model for the keypad.
type Model struct {
	backend Backend
	keys    keyMap
	help    help.Model

	display  string
	lastKey  calculator.Key
	err      error

	// Presses are applied one at a time in input order.
	inflight bool
	queue    []calculator.Key
}

// New creates a keypad model over backend.
func New(backend Backend, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp

	return Model{
		backend: backend,
		keys:    defaultKeyMap(),
		help:    h,
		display: backend.Display(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if k, ok := buttonAt(msg.X, msg.Y); ok {
			return m.enqueue(k)
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case pressedMsg:
		m.inflight = false
		m.lastKey = msg.key
		m.display = msg.display
		switch {
		case msg.err == nil:
			m.err = nil
		case calculator.IsComputationFailure(msg.err):
			m.err = nil
		default:
			m.err = msg.err
		}
		if len(m.queue) > 0 {
			next := m.queue[0]
			m.queue = m.queue[1:]
			return m.start(next)
		}
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Equals):
		return m.enqueue(calculator.KeyEquals)
	case key.Matches(msg, m.keys.Backspace):
		return m.enqueue(calculator.KeyBackspace)
	case key.Matches(msg, m.keys.Clear):
		return m.enqueue(calculator.KeyClear)
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	k, err := calculator.ParseKey(string(msg.Runes))
	if err != nil {
		return m, nil
	}
	return m.enqueue(k)
}

func (m Model) enqueue(k calculator.Key) (tea.Model, tea.Cmd) {
	if m.inflight {
		m.queue = append(m.queue, k)
		return m, nil
	}
	return m.start(k)
}

func (m Model) start(k calculator.Key) (tea.Model, tea.Cmd) {
	m.inflight = true
	m.lastKey = k
	backend := m.backend
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		display, err := backend.Press(ctx, k)
		return pressedMsg{key: k, display: display, err: err}
	}
}

// View renders the keypad
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(DisplayStyle.Render(fitDisplay(m.display)))
	b.WriteString("\n\n")
	b.WriteString(renderGrid(m.lastKey))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return FrameStyle.Render(b.String())
}

// Display returns the text currently shown on the display panel.
func (m Model) Display() string { return m.display }

// Run starts the keypad on the terminal and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	var (
		backend Backend
		err     error
	)
	if cfg.RemoteURL != "" {
		backend, err = DialRemote(ctx, cfg.RemoteURL)
		if err != nil {
			return err
		}
	} else {
		backend = NewLocalBackend()
	}
	defer backend.Close()

	p := tea.NewProgram(
		New(backend, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("keypad: %w", err)
	}
	return nil
}
