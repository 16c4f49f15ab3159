package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishkeep/wishkeep/internal/stream"
)

func TestSubmit_Transitions(t *testing.T) {
	s := NewSession()
	require.Equal(t, StateIdle, s.State())
	assert.False(t, s.Busy())

	msg, err := s.Submit("add dune to my books")
	require.NoError(t, err)
	assert.Equal(t, StateSending, s.State())
	assert.True(t, s.Busy())
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "add dune to my books", msg.Content)
	assert.NotEqual(t, msg.ID.String(), "00000000-0000-0000-0000-000000000000")

	require.Len(t, s.Messages(), 1)
}

func TestSubmit_TrimsAndClearsDraft(t *testing.T) {
	s := NewSession()
	s.SetDraft("  add dune  ")

	msg, err := s.Submit(s.Draft())
	require.NoError(t, err)
	assert.Equal(t, "add dune", msg.Content)
	assert.Empty(t, s.Draft())
}

func TestSubmit_RejectsEmpty(t *testing.T) {
	s := NewSession()

	_, err := s.Submit("   ")
	assert.ErrorIs(t, err, ErrEmptySubmission)
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Messages())
}

func TestSubmit_RejectsWhileBusy(t *testing.T) {
	s := NewSession()

	_, err := s.Submit("first")
	require.NoError(t, err)

	_, err = s.Submit("second")
	assert.ErrorIs(t, err, ErrBusy)

	// Still streaming: double submit also rejected mid-turn.
	require.NoError(t, s.Apply(stream.TextFrame("hi")))
	_, err = s.Submit("third")
	assert.ErrorIs(t, err, ErrBusy)

	require.Len(t, s.Messages(), 2, "rejected submissions must not append messages")
}

func TestApply_FirstFrameCreatesAssistantMessage(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.TextFrame("Hello")))
	assert.Equal(t, StateStreaming, s.State())

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hello", msgs[1].Content)
}

func TestApply_TextAppends(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.TextFrame("Hel")))
	require.NoError(t, s.Apply(stream.TextFrame("lo.")))

	msgs := s.Messages()
	assert.Equal(t, "Hello.", msgs[1].Content)
}

func TestApply_ToolLifecycle(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("add dune")
	require.NoError(t, err)

	args := json.RawMessage(`{"title":"Dune","categoryId":"books"}`)
	require.NoError(t, s.Apply(stream.ToolCallFrame("c1", "createItem", args)))

	msgs := s.Messages()
	require.Len(t, msgs[1].ToolInvocations, 1)
	inv := msgs[1].ToolInvocations[0]
	assert.Equal(t, "c1", inv.CallID)
	assert.Equal(t, "createItem", inv.ToolName)
	assert.False(t, inv.Completed)

	result := json.RawMessage(`{"success":true,"message":"Added \"Dune\" to the wishlist."}`)
	require.NoError(t, s.Apply(stream.ToolResultFrame("c1", "createItem", result)))

	msgs = s.Messages()
	inv = msgs[1].ToolInvocations[0]
	assert.True(t, inv.Completed)
	assert.True(t, inv.Succeeded)
	assert.JSONEq(t, string(result), string(inv.Result))
	assert.Contains(t, msgs[1].Content, "✓")
	assert.Contains(t, msgs[1].Content, "Added \"Dune\"")
}

func TestApply_FailedToolResult(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("add dune")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.ToolCallFrame("c1", "createItem", nil)))
	result := json.RawMessage(`{"success":false,"message":"You already have similar items: Dune."}`)
	require.NoError(t, s.Apply(stream.ToolResultFrame("c1", "createItem", result)))

	msgs := s.Messages()
	inv := msgs[1].ToolInvocations[0]
	assert.True(t, inv.Completed)
	assert.False(t, inv.Succeeded)
	assert.Contains(t, msgs[1].Content, "✗")
}

func TestApply_UnmatchedToolResultIgnored(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.ToolCallFrame("c1", "createItem", nil)))
	require.NoError(t, s.Apply(stream.ToolResultFrame("other", "createItem", json.RawMessage(`{"success":true}`))))

	msgs := s.Messages()
	assert.False(t, msgs[1].ToolInvocations[0].Completed)
}

func TestApply_FinishReturnsToIdle(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.TextFrame("Hello.")))
	require.NoError(t, s.Apply(stream.FinishFrame("stop")))

	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Busy())

	// Exactly one assistant message for the turn.
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
}

func TestApply_ErrorPreservesDraftForRetry(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("add dune")
	require.NoError(t, err)

	require.NoError(t, s.Apply(stream.ErrorFrame(stream.CodeProvider, "model unavailable")))

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "add dune", s.Draft(), "failed submission returns to the draft")

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "model unavailable")
}

func TestApply_ErrorDoesNotClobberNewDraft(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("add dune")
	require.NoError(t, err)

	s.SetDraft("something newer")
	require.NoError(t, s.Apply(stream.ErrorFrame(stream.CodeProvider, "boom")))

	assert.Equal(t, "something newer", s.Draft())
}

func TestApply_ImmediateTerminalFrameStillYieldsAssistantMessage(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)

	// No text or tool frames at all before the turn ends.
	require.NoError(t, s.Apply(stream.ErrorFrame(stream.CodeInternal, "boom")))

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
}

func TestApply_NoTurnInFlight(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Apply(stream.TextFrame("stray")), ErrNoTurn)
}

func TestClear(t *testing.T) {
	s := NewSession()
	_, err := s.Submit("hi")
	require.NoError(t, err)
	require.NoError(t, s.Apply(stream.TextFrame("Hello.")))
	require.NoError(t, s.Apply(stream.FinishFrame("stop")))

	s.SetDraft("next question")
	s.Clear()

	assert.Empty(t, s.Messages())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "next question", s.Draft(), "clear keeps the draft")
}

func TestFullTurnSequence(t *testing.T) {
	s := NewSession()

	_, err := s.Submit("mark jade done")
	require.NoError(t, err)

	frames := []stream.Frame{
		stream.TextFrame("Sure. "),
		stream.ToolCallFrame("c1", "toggleItem", json.RawMessage(`{"identifier":"jade"}`)),
		stream.ToolResultFrame("c1", "toggleItem", json.RawMessage(`{"success":true,"message":"marked done: \"Jade Palace\"."}`)),
		stream.TextFrame("Jade Palace is done."),
		stream.FinishFrame("stop"),
	}
	for _, f := range frames {
		require.NoError(t, s.Apply(f))
	}

	assert.Equal(t, StateIdle, s.State())
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Jade Palace is done.")
	require.Len(t, msgs[1].ToolInvocations, 1)
	assert.True(t, msgs[1].ToolInvocations[0].Succeeded)
}
