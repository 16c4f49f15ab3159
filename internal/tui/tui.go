// Package tui provides the Bubble Tea terminal client for wishkeep. It owns
// the conversation transcript, posts each turn to the server, and folds the
// streamed frames back into the display.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/conversation"
	"github.com/wishkeep/wishkeep/internal/stream"
)

// maxHistory bounds the input history ring.
const maxHistory = 100

// streamTimeout is the maximum time for a single turn.
const streamTimeout = 5 * time.Minute

// Layout constants for viewport height calculation.
const (
	separatorLines = 2
	helpLines      = 1
	promptLines    = 1
	minViewport    = 3
)

// Model is the Bubble Tea model for the wishkeep chat interface.
type Model struct {
	// Input (textarea for multi-line support, Shift+Enter for newline)
	input      textarea.Model
	history    []string
	historyIdx int

	lastCtrlC time.Time

	// Conversation state machine; the single source of truth for the
	// transcript and turn lifecycle.
	session *conversation.Session

	spinner  spinner.Model
	viewBuf  strings.Builder
	viewport viewport.Model

	help help.Model
	keys keyMap

	// Stream management. Channel closure signals goroutine completion.
	streamCancel  context.CancelFunc
	streamEventCh <-chan streamEvent

	client    *Client
	ctx       context.Context
	ctxCancel context.CancelFunc

	width  int
	height int

	styles   Styles
	markdown *markdownRenderer

	// helpText is transient system output (slash command results) shown
	// after the transcript.
	helpText string
}

// New creates the chat model. ctx MUST be the same context passed to
// tea.WithContext so cancellation behavior stays consistent.
func New(ctx context.Context, client *Client) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}
	if client == nil {
		return nil, errors.New("tui.New: client is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "What would you like to add, find, or mark done?"
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	cleanStyle := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{
		Focused: cleanStyle,
		Blurred: cleanStyle,
	})
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{} // Keys are routed explicitly in handleKey

	return &Model{
		client:    client,
		session:   conversation.NewSession(),
		ctx:       ctx,
		ctxCancel: cancel,
		input:     ta,
		spinner:   sp,
		viewport:  vp,
		help:      help.New(),
		keys:      newKeyMap(),
		styles:    DefaultStyles(),
		history:   make([]string, 0, maxHistory),
		markdown:  newMarkdownRenderer(80),
		width:     80,
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := m.input.Height() + promptLines
		fixedHeight := separatorLines + inputHeight + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4)
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.session.State() == conversation.StateSending {
			m.rebuildViewportContent()
		}
		return m, cmd

	case streamStartedMsg:
		m.streamCancel = msg.cancel
		m.streamEventCh = msg.eventCh
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForStream(msg.eventCh)

	case frameMsg:
		_ = m.session.Apply(msg.frame)
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		if msg.frame.Terminal() {
			return m, tea.Batch(listenForStream(m.streamEventCh), m.input.Focus())
		}
		return m, listenForStream(m.streamEventCh)

	case streamErrorMsg:
		m.endStream(msg.err)
		return m, m.input.Focus()

	case streamClosedMsg:
		// Normal end when a terminal frame already arrived; otherwise the
		// server hung up mid-turn.
		if m.session.Busy() {
			m.endStream(errors.New("connection closed before the turn finished"))
		} else {
			m.cancelStream()
			m.streamEventCh = nil
		}
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// endStream tears down stream state and folds a failure into the transcript.
func (m *Model) endStream(err error) {
	m.cancelStream()
	m.streamEventCh = nil

	if m.session.Busy() {
		message := "the request failed, please try again"
		switch {
		case errors.Is(err, context.Canceled):
			message = "canceled"
		case errors.Is(err, context.DeadlineExceeded):
			message = "the request timed out"
		case err != nil:
			message = err.Error()
		}
		_ = m.session.Apply(stream.ErrorFrame(stream.CodeInternal, message))
	}

	// Restore the failed submission for editing.
	if draft := m.session.Draft(); draft != "" && m.input.Value() == "" {
		m.input.SetValue(draft)
		m.input.CursorEnd()
	}

	m.rebuildViewportContent()
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	_, _ = m.viewBuf.WriteString(m.viewport.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the viewport from the session
// transcript and the current turn state.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.RenderWelcomeTips())
	_, _ = b.WriteString("\n")

	for _, msg := range m.session.Messages() {
		switch msg.Role {
		case conversation.RoleUser:
			_, _ = b.WriteString(m.styles.User.Render("You> "))
			_, _ = b.WriteString(msg.Content)
		case conversation.RoleAssistant:
			_, _ = b.WriteString(m.styles.Assistant.Render("Wishkeep> "))
			_, _ = b.WriteString(m.markdown.Render(msg.Content))
			for _, inv := range msg.ToolInvocations {
				if !inv.Completed {
					_, _ = b.WriteString("\n")
					_, _ = b.WriteString(m.styles.Tool.Render("⋯ " + inv.ToolName))
				}
			}
		}
		_, _ = b.WriteString("\n\n")
	}

	if m.helpText != "" {
		_, _ = b.WriteString(m.helpText)
		_, _ = b.WriteString("\n\n")
	}

	if m.session.State() == conversation.StateSending {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Thinking...\n\n")
	}

	m.viewport.SetContent(b.String())
}

// buildHistory converts the transcript to the wire history. Messages whose
// content ended up empty are skipped; the server rejects blank entries.
func (m *Model) buildHistory() []assistant.Message {
	messages := m.session.Messages()
	history := make([]assistant.Message, 0, len(messages))
	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		history = append(history, assistant.Message{
			Role:    string(msg.Role),
			Content: content,
		})
	}
	return history
}

// renderSeparator returns a horizontal line separator.
func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns state-appropriate keyboard shortcut help.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	if m.session.Busy() {
		bindings = []key.Binding{
			m.keys.EscCancel, m.keys.Cancel,
			m.keys.ScrollUp, m.keys.ScrollDown,
		}
	} else {
		bindings = []key.Binding{
			m.keys.Submit, m.keys.NewLine, m.keys.History,
			m.keys.Cancel, m.keys.Quit, m.keys.ScrollUp,
		}
	}
	return m.help.ShortHelpView(bindings)
}
