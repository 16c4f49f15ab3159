package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishkeep/wishkeep/internal/conversation"
	"github.com/wishkeep/wishkeep/internal/stream"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	client, err := NewClient("http://localhost:0", "test-token")
	require.NoError(t, err)

	m, err := New(context.Background(), client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.cleanup() })
	return m
}

func TestNew_Validation(t *testing.T) {
	client, err := NewClient("http://localhost:0", "test-token")
	require.NoError(t, err)

	_, err = New(nil, client) //nolint:staticcheck // nil ctx is the case under test
	assert.Error(t, err)

	_, err = New(context.Background(), nil)
	assert.Error(t, err)
}

func TestSubmitStartsTurn(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("add dune to my books")

	_, cmd := m.handleSubmit()
	require.NotNil(t, cmd)

	assert.True(t, m.session.Busy())
	assert.Empty(t, m.input.Value())
	assert.Equal(t, []string{"add dune to my books"}, m.history)

	msgs := m.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "add dune to my books", msgs[0].Content)
}

func TestSubmit_EmptyIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	_, cmd := m.handleSubmit()
	assert.Nil(t, cmd)
	assert.False(t, m.session.Busy())
}

func TestFrameMsgsBuildTranscript(t *testing.T) {
	m := newTestModel(t)
	_, err := m.session.Submit("hi")
	require.NoError(t, err)

	for _, f := range []stream.Frame{
		stream.TextFrame("Hello"),
		stream.TextFrame(" there."),
		stream.FinishFrame("stop"),
	} {
		_, _ = m.Update(frameMsg{frame: f})
	}

	assert.False(t, m.session.Busy())
	msgs := m.session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello there.", msgs[1].Content)
}

func TestStreamClosedMidTurnBecomesError(t *testing.T) {
	m := newTestModel(t)
	_, err := m.session.Submit("hi")
	require.NoError(t, err)
	_, _ = m.Update(frameMsg{frame: stream.TextFrame("Hel")})

	_, _ = m.Update(streamClosedMsg{})

	assert.False(t, m.session.Busy())
	msgs := m.session.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "⚠")
}

func TestStreamErrorRestoresDraftToInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("add dune")
	_, _ = m.handleSubmit()

	_, _ = m.Update(streamErrorMsg{err: assert.AnError})

	assert.False(t, m.session.Busy())
	assert.Equal(t, "add dune", m.input.Value(), "failed submission returns to the input")
}

func TestBuildHistorySkipsEmptyContent(t *testing.T) {
	m := newTestModel(t)

	_, err := m.session.Submit("hi")
	require.NoError(t, err)
	require.NoError(t, m.session.Apply(stream.TextFrame("Hello.")))
	require.NoError(t, m.session.Apply(stream.FinishFrame("stop")))

	// A turn that ended with no assistant output at all.
	_, err = m.session.Submit("again")
	require.NoError(t, err)
	require.NoError(t, m.session.Apply(stream.FinishFrame("stop")))

	history := m.buildHistory()
	require.Len(t, history, 3)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, "Hello.", history[1].Content)
	assert.Equal(t, "again", history[2].Content)
}

func TestSlashClear(t *testing.T) {
	m := newTestModel(t)
	_, err := m.session.Submit("hi")
	require.NoError(t, err)
	require.NoError(t, m.session.Apply(stream.TextFrame("Hello.")))
	require.NoError(t, m.session.Apply(stream.FinishFrame("stop")))

	m.input.SetValue("/clear")
	_, _ = m.handleSubmit()

	assert.Empty(t, m.session.Messages())
	assert.Equal(t, conversation.StateIdle, m.session.State())
}

func TestSlashHelp(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/help")
	_, _ = m.handleSubmit()

	assert.NotEmpty(t, m.helpText)
	assert.Empty(t, m.input.Value())
}

func TestSlashExitQuits(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/exit")
	_, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewportShowsBanner(t *testing.T) {
	m := newTestModel(t)
	m.rebuildViewportContent()

	assert.NotEmpty(t, m.viewport.View())
}
