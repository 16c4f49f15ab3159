// Package stream defines the typed frame protocol carried between the
// assistant server and its clients, encoded as Server-Sent Events.
//
// A response to one submitted turn is an ordered sequence of frames: zero or
// more text and tool frames, terminated by exactly one finish or error frame.
// Producers use Encoder; consumers use the pull-based Decoder, which is
// independent of how the underlying transport chunks the bytes.
package stream

import (
	"encoding/json"
	"fmt"
)

// FrameType discriminates the frame union.
type FrameType string

const (
	// FrameText carries an incremental fragment of assistant prose.
	FrameText FrameType = "text"

	// FrameToolCall announces a tool execution about to run.
	FrameToolCall FrameType = "tool-call"

	// FrameToolResult carries the outcome of a completed tool execution.
	FrameToolResult FrameType = "tool-result"

	// FrameFinish terminates a successful turn.
	FrameFinish FrameType = "finish"

	// FrameError terminates a failed turn.
	FrameError FrameType = "error"
)

// Error codes carried by error frames.
const (
	CodeInvalidRequest = "invalid_request"
	CodeProvider       = "provider_error"
	CodeInternal       = "internal_error"
)

// Frame is one element of the response stream. Type selects which payload
// field is set; all others are nil (Text is empty for non-text frames).
type Frame struct {
	Type FrameType

	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
	Finish     *Finish
	Error      *ErrorInfo
}

// ToolCall is the payload of a tool-call frame.
type ToolCall struct {
	CallID   string          `json:"callId"`
	ToolName string          `json:"toolName"`
	Args     json.RawMessage `json:"args,omitempty"`
}

// ToolResult is the payload of a tool-result frame. Result is the tool's
// structured outcome, matched to its call by CallID.
type ToolResult struct {
	CallID   string          `json:"callId"`
	ToolName string          `json:"toolName"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// Finish is the payload of a finish frame.
type Finish struct {
	Reason string `json:"reason"`
}

// ErrorInfo is the payload of an error frame.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// textPayload is the wire shape of a text frame.
type textPayload struct {
	Text string `json:"text"`
}

// TextFrame builds a text frame.
func TextFrame(text string) Frame {
	return Frame{Type: FrameText, Text: text}
}

// ToolCallFrame builds a tool-call frame.
func ToolCallFrame(callID, toolName string, args json.RawMessage) Frame {
	return Frame{Type: FrameToolCall, ToolCall: &ToolCall{
		CallID:   callID,
		ToolName: toolName,
		Args:     args,
	}}
}

// ToolResultFrame builds a tool-result frame.
func ToolResultFrame(callID, toolName string, result json.RawMessage) Frame {
	return Frame{Type: FrameToolResult, ToolResult: &ToolResult{
		CallID:   callID,
		ToolName: toolName,
		Result:   result,
	}}
}

// FinishFrame builds a finish frame.
func FinishFrame(reason string) Frame {
	return Frame{Type: FrameFinish, Finish: &Finish{Reason: reason}}
}

// ErrorFrame builds an error frame.
func ErrorFrame(code, message string) Frame {
	return Frame{Type: FrameError, Error: &ErrorInfo{Code: code, Message: message}}
}

// payload returns the JSON wire payload for the frame.
func (f Frame) payload() (any, error) {
	switch f.Type {
	case FrameText:
		return textPayload{Text: f.Text}, nil
	case FrameToolCall:
		if f.ToolCall == nil {
			return nil, fmt.Errorf("tool-call frame missing payload")
		}
		return f.ToolCall, nil
	case FrameToolResult:
		if f.ToolResult == nil {
			return nil, fmt.Errorf("tool-result frame missing payload")
		}
		return f.ToolResult, nil
	case FrameFinish:
		if f.Finish == nil {
			return nil, fmt.Errorf("finish frame missing payload")
		}
		return f.Finish, nil
	case FrameError:
		if f.Error == nil {
			return nil, fmt.Errorf("error frame missing payload")
		}
		return f.Error, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
}

// parseFrame decodes a frame from its wire event type and data payload.
// Unknown event types return ok=false so decoders can skip them.
func parseFrame(eventType string, data []byte) (Frame, bool, error) {
	switch FrameType(eventType) {
	case FrameText:
		var p textPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return Frame{}, false, fmt.Errorf("malformed text frame: %w", err)
		}
		return TextFrame(p.Text), true, nil
	case FrameToolCall:
		var p ToolCall
		if err := json.Unmarshal(data, &p); err != nil {
			return Frame{}, false, fmt.Errorf("malformed tool-call frame: %w", err)
		}
		return Frame{Type: FrameToolCall, ToolCall: &p}, true, nil
	case FrameToolResult:
		var p ToolResult
		if err := json.Unmarshal(data, &p); err != nil {
			return Frame{}, false, fmt.Errorf("malformed tool-result frame: %w", err)
		}
		return Frame{Type: FrameToolResult, ToolResult: &p}, true, nil
	case FrameFinish:
		var p Finish
		if err := json.Unmarshal(data, &p); err != nil {
			return Frame{}, false, fmt.Errorf("malformed finish frame: %w", err)
		}
		return Frame{Type: FrameFinish, Finish: &p}, true, nil
	case FrameError:
		var p ErrorInfo
		if err := json.Unmarshal(data, &p); err != nil {
			return Frame{}, false, fmt.Errorf("malformed error frame: %w", err)
		}
		return Frame{Type: FrameError, Error: &p}, true, nil
	default:
		// Skipped for forward compatibility with newer servers.
		return Frame{}, false, nil
	}
}

// Terminal reports whether the frame ends a turn.
func (f Frame) Terminal() bool {
	return f.Type == FrameFinish || f.Type == FrameError
}
