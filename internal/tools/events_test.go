package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishkeep/wishkeep/internal/stream"
)

// recordingSink collects emitted frames in order.
type recordingSink struct {
	frames []stream.Frame
}

func (s *recordingSink) Emit(f stream.Frame) {
	s.frames = append(s.frames, f)
}

type echoInput struct {
	Value string `json:"value"`
}

func TestWithEvents_EmitsCallAndResult(t *testing.T) {
	wrapped := WithEvents("echo", func(_ *ai.ToolContext, in echoInput) (Result, error) {
		return success(map[string]any{"echoed": in.Value}, "echoed %q", in.Value), nil
	})

	sink := &recordingSink{}
	ctx := &ai.ToolContext{Context: ContextWithSink(context.Background(), sink)}

	result, err := wrapped(ctx, echoInput{Value: "hi"})
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, sink.frames, 2)

	call := sink.frames[0]
	assert.Equal(t, stream.FrameToolCall, call.Type)
	assert.Equal(t, "echo", call.ToolCall.ToolName)
	assert.NotEmpty(t, call.ToolCall.CallID)
	assert.JSONEq(t, `{"value":"hi"}`, string(call.ToolCall.Args))

	res := sink.frames[1]
	assert.Equal(t, stream.FrameToolResult, res.Type)
	assert.Equal(t, "echo", res.ToolResult.ToolName)
	assert.Equal(t, call.ToolCall.CallID, res.ToolResult.CallID, "result is matched to its call")

	var decoded Result
	require.NoError(t, json.Unmarshal(res.ToolResult.Result, &decoded))
	assert.True(t, decoded.Success)
}

func TestWithEvents_NoSinkPassesThrough(t *testing.T) {
	called := false
	wrapped := WithEvents("echo", func(_ *ai.ToolContext, in echoInput) (Result, error) {
		called = true
		return success(nil, "ok"), nil
	})

	result, err := wrapped(&ai.ToolContext{Context: context.Background()}, echoInput{Value: "hi"})
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, result.Success)
}

func TestWithEvents_HandlerErrorStillEmitsResult(t *testing.T) {
	wrapped := WithEvents("boom", func(_ *ai.ToolContext, _ echoInput) (Result, error) {
		return Result{}, fmt.Errorf("handler exploded")
	})

	sink := &recordingSink{}
	ctx := &ai.ToolContext{Context: ContextWithSink(context.Background(), sink)}

	_, err := wrapped(ctx, echoInput{})
	assert.Error(t, err)

	require.Len(t, sink.frames, 2)
	res := sink.frames[1]
	require.Equal(t, stream.FrameToolResult, res.Type)

	var decoded Result
	require.NoError(t, json.Unmarshal(res.ToolResult.Result, &decoded))
	assert.False(t, decoded.Success)
	assert.Contains(t, decoded.Error, "handler exploded")
}

func TestWithEvents_DistinctCallIDs(t *testing.T) {
	wrapped := WithEvents("echo", func(_ *ai.ToolContext, in echoInput) (Result, error) {
		return success(nil, "ok"), nil
	})

	sink := &recordingSink{}
	ctx := &ai.ToolContext{Context: ContextWithSink(context.Background(), sink)}

	_, err := wrapped(ctx, echoInput{Value: "a"})
	require.NoError(t, err)
	_, err = wrapped(ctx, echoInput{Value: "b"})
	require.NoError(t, err)

	require.Len(t, sink.frames, 4)
	assert.NotEqual(t, sink.frames[0].ToolCall.CallID, sink.frames[2].ToolCall.CallID)
}
