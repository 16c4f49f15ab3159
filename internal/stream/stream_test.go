package stream

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_TextFrame(t *testing.T) {
	var buf bytes.Buffer

	err := NewEncoder(&buf).Encode(TextFrame("hello"))
	require.NoError(t, err)

	assert.Equal(t, "event: text\ndata: {\"text\":\"hello\"}\n\n", buf.String())
}

func TestEncoder_ErrorFrame(t *testing.T) {
	var buf bytes.Buffer

	err := NewEncoder(&buf).Encode(ErrorFrame(CodeProvider, "model unavailable"))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "event: error\n"))
	assert.Contains(t, out, `"code":"provider_error"`)
	assert.Contains(t, out, `"message":"model unavailable"`)
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestEncoder_MissingPayload(t *testing.T) {
	var buf bytes.Buffer

	err := NewEncoder(&buf).Encode(Frame{Type: FrameToolCall})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestDecoder_SingleTurn(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	args := json.RawMessage(`{"title":"Dune","categoryId":"books"}`)
	result := json.RawMessage(`{"success":true}`)
	frames := []Frame{
		TextFrame("Let me add that. "),
		ToolCallFrame("call-1", "createItem", args),
		ToolResultFrame("call-1", "createItem", result),
		TextFrame("Added Dune to Books."),
		FinishFrame("stop"),
	}
	for _, f := range frames {
		require.NoError(t, enc.Encode(f))
	}

	dec := NewDecoder(&buf)
	var got []Frame
	for {
		f, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, f)
	}

	require.Len(t, got, 5)
	assert.Equal(t, FrameText, got[0].Type)
	assert.Equal(t, "Let me add that. ", got[0].Text)
	assert.Equal(t, FrameToolCall, got[1].Type)
	assert.Equal(t, "call-1", got[1].ToolCall.CallID)
	assert.Equal(t, "createItem", got[1].ToolCall.ToolName)
	assert.JSONEq(t, string(args), string(got[1].ToolCall.Args))
	assert.Equal(t, FrameToolResult, got[2].Type)
	assert.Equal(t, "call-1", got[2].ToolResult.CallID)
	assert.JSONEq(t, string(result), string(got[2].ToolResult.Result))
	assert.Equal(t, FrameFinish, got[4].Type)
	assert.Equal(t, "stop", got[4].Finish.Reason)
	assert.True(t, got[4].Terminal())
}

// The decoder must produce identical frames regardless of how the transport
// chunks the byte stream.
func TestDecoder_ChunkBoundaryIndependence(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(TextFrame("partial frames are invisible")))
	require.NoError(t, enc.Encode(ToolCallFrame("c1", "queryItems", json.RawMessage(`{"status":"todo"}`))))
	require.NoError(t, enc.Encode(FinishFrame("stop")))
	wire := buf.Bytes()

	decode := func(r io.Reader) []Frame {
		dec := NewDecoder(r)
		var frames []Frame
		for {
			f, err := dec.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			frames = append(frames, f)
		}
		return frames
	}

	whole := decode(bytes.NewReader(wire))
	byteAtATime := decode(iotest.OneByteReader(bytes.NewReader(wire)))
	halfReads := decode(iotest.HalfReader(bytes.NewReader(wire)))

	assert.Equal(t, whole, byteAtATime)
	assert.Equal(t, whole, halfReads)
	require.Len(t, whole, 3)
}

func TestDecoder_SkipsUnknownEventTypes(t *testing.T) {
	wire := "event: heartbeat\ndata: {}\n\n" +
		"event: text\ndata: {\"text\":\"hi\"}\n\n" +
		"event: finish\ndata: {\"reason\":\"stop\"}\n\n"

	dec := NewDecoder(strings.NewReader(wire))

	f, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameText, f.Type)
	assert.Equal(t, "hi", f.Text)

	f, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameFinish, f.Type)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoder_IgnoresCommentsAndStrayBlankLines(t *testing.T) {
	wire := ": keepalive\n\n" +
		"event: text\n: mid-event comment\ndata: {\"text\":\"ok\"}\n\n"

	dec := NewDecoder(strings.NewReader(wire))

	f, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "ok", f.Text)
}

func TestDecoder_JoinsMultipleDataLines(t *testing.T) {
	// JSON spread across two data lines must be reassembled before parsing.
	wire := "event: text\ndata: {\"text\":\n" + "data: \"split\"}\n\n"

	dec := NewDecoder(strings.NewReader(wire))

	f, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "split", f.Text)
}

func TestDecoder_TruncatedEvent(t *testing.T) {
	wire := "event: text\ndata: {\"text\":\"cut off"

	dec := NewDecoder(strings.NewReader(wire))

	_, err := dec.Next()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestDecoder_MalformedPayload(t *testing.T) {
	wire := "event: text\ndata: not-json\n\n"

	dec := NewDecoder(strings.NewReader(wire))

	_, err := dec.Next()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestDecoder_EmptyStream(t *testing.T) {
	dec := NewDecoder(strings.NewReader(""))

	_, err := dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoder_CRLFLineEndings(t *testing.T) {
	wire := "event: finish\r\ndata: {\"reason\":\"stop\"}\r\n\r\n"

	dec := NewDecoder(strings.NewReader(wire))

	f, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameFinish, f.Type)
	assert.Equal(t, "stop", f.Finish.Reason)
}

func TestFrame_Terminal(t *testing.T) {
	assert.False(t, TextFrame("x").Terminal())
	assert.False(t, ToolCallFrame("c", "t", nil).Terminal())
	assert.True(t, FinishFrame("stop").Terminal())
	assert.True(t, ErrorFrame(CodeInternal, "boom").Terminal())
}
