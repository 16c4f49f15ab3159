package tui

import (
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Slash command constants.
const (
	cmdHelp  = "/help"
	cmdClear = "/clear"
	cmdExit  = "/exit"
	cmdQuit  = "/quit"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit     key.Binding
	NewLine    key.Binding
	History    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	EscCancel  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		NewLine:    key.NewBinding(key.WithKeys("shift+enter"), key.WithHelp("s+enter", "newline")),
		History:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
		Cancel:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		EscCancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, m.cleanup()
		}
	}

	switch k.Code {
	case tea.KeyEnter:
		// Enter submits, Shift+Enter adds a newline via the textarea.
		if !m.session.Busy() && k.Mod&tea.ModShift == 0 {
			return m.handleSubmit()
		}

	case tea.KeyUp:
		if !m.session.Busy() && m.input.Line() == 0 {
			return m.navigateHistory(-1)
		}

	case tea.KeyDown:
		if !m.session.Busy() && m.input.Line() == m.input.LineCount()-1 {
			return m.navigateHistory(1)
		}

	case tea.KeyEscape:
		if m.session.Busy() {
			m.endStream(errors.New("canceled"))
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	// Typing stays available even while a turn streams.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := time.Now()

	// Double Ctrl+C within 1 second quits.
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, m.cleanup()
	}
	m.lastCtrlC = now

	if m.session.Busy() {
		m.endStream(errors.New("canceled"))
		return m, nil
	}

	m.input.Reset()
	return m, nil
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		return m.handleSlashCommand(text)
	}

	if _, err := m.session.Submit(text); err != nil {
		return m, nil
	}

	m.history = append(m.history, text)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyIdx = len(m.history)

	m.input.Reset()
	m.helpText = ""
	m.rebuildViewportContent()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.spinner.Tick,
		m.startStream(m.buildHistory()),
	)
}

func (m *Model) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case cmdHelp:
		m.showHelp()
	case cmdClear:
		m.session.Clear()
		m.rebuildViewportContent()
	case cmdExit, cmdQuit:
		return m, m.cleanup()
	default:
		m.helpText = m.styles.Error.Render("Unknown command: " + cmd)
		m.rebuildViewportContent()
	}
	m.input.Reset()
	return m, nil
}

func (m *Model) navigateHistory(delta int) (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}

	m.historyIdx += delta

	if m.historyIdx < 0 {
		m.historyIdx = 0
	}
	if m.historyIdx > len(m.history) {
		m.historyIdx = len(m.history)
	}

	if m.historyIdx == len(m.history) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}

	return m, nil
}

func (m *Model) cancelStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
}

// cleanup cancels any active stream and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}

	m.cancelStream()
	m.streamEventCh = nil

	return tea.Quit
}

// showHelp renders command help into the transcript area.
func (m *Model) showHelp() {
	m.helpText = m.styles.System.Render(
		"Commands: " + cmdHelp + ", " + cmdClear + ", " + cmdExit + "\n" +
			"Shortcuts:\n" +
			"  Enter: send message\n" +
			"  Shift+Enter: new line\n" +
			"  Ctrl+C: cancel/clear\n" +
			"  Ctrl+D: exit\n" +
			"  Up/Down: history\n" +
			"  PgUp/PgDn: scroll")
	m.rebuildViewportContent()
}
