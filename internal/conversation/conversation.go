// Package conversation holds the client-side state of one assistant
// conversation: the transcript, the draft being typed, and a small state
// machine that applies streamed frames to the growing assistant reply.
//
// The transcript lives only in the client; nothing here is persisted. The
// server receives the full history with every submission.
package conversation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wishkeep/wishkeep/internal/stream"
)

var (
	// ErrBusy indicates a submission while a turn is already in flight.
	ErrBusy = errors.New("a turn is already in flight")

	// ErrEmptySubmission indicates a blank submission.
	ErrEmptySubmission = errors.New("nothing to submit")

	// ErrNoTurn indicates a frame arrived with no turn in flight.
	ErrNoTurn = errors.New("no turn in flight")
)

// State is the session's position in the turn lifecycle.
type State int

const (
	// StateIdle accepts submissions.
	StateIdle State = iota

	// StateSending has submitted a turn and awaits the first frame.
	StateSending

	// StateStreaming is receiving frames for the current turn.
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Role identifies a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolInvocation records one tool execution inside an assistant message.
// Args and Result hold the raw payloads for structured rendering.
type ToolInvocation struct {
	CallID    string
	ToolName  string
	Args      json.RawMessage
	Result    json.RawMessage
	Completed bool
	Succeeded bool
}

// Message is one transcript entry. Content is append-only while the turn
// streams and immutable once the turn completes.
type Message struct {
	ID              uuid.UUID
	Role            Role
	Content         string
	ToolInvocations []ToolInvocation
	Timestamp       time.Time
}

// Session is the conversation state machine:
//
//	Idle --Submit--> Sending --first frame--> Streaming --finish/error--> Idle
//
// Session is not safe for concurrent use; it belongs to a single UI loop.
type Session struct {
	state     State
	messages  []Message
	draft     string
	submitted string // restores the draft when the turn fails
}

// NewSession creates an empty session in Idle.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	return s.state != StateIdle
}

// Draft returns the text being composed.
func (s *Session) Draft() string {
	return s.draft
}

// SetDraft replaces the composed text.
func (s *Session) SetDraft(text string) {
	s.draft = text
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// Submit appends the draft (or explicit text) as a user message and moves to
// Sending. Rejected with ErrBusy while a turn is in flight and with
// ErrEmptySubmission when the trimmed text is empty. On success the draft is
// cleared; if the turn later fails, the draft is restored for retry.
func (s *Session) Submit(text string) (Message, error) {
	if s.state != StateIdle {
		return Message{}, ErrBusy
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, ErrEmptySubmission
	}

	msg := Message{
		ID:        uuid.New(),
		Role:      RoleUser,
		Content:   trimmed,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	s.submitted = text
	s.draft = ""
	s.state = StateSending
	return msg, nil
}

// toolOutcome is the subset of the tool Result payload the transcript needs.
type toolOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Apply folds one streamed frame into the transcript. The first frame of a
// turn creates the assistant message; finish and error frames return the
// session to Idle. Exactly one assistant message exists per submitted turn.
func (s *Session) Apply(frame stream.Frame) error {
	switch s.state {
	case StateIdle:
		return ErrNoTurn
	case StateSending:
		s.messages = append(s.messages, Message{
			ID:        uuid.New(),
			Role:      RoleAssistant,
			Timestamp: time.Now(),
		})
		s.state = StateStreaming
	}

	current := &s.messages[len(s.messages)-1]

	switch frame.Type {
	case stream.FrameText:
		current.Content += frame.Text

	case stream.FrameToolCall:
		current.ToolInvocations = append(current.ToolInvocations, ToolInvocation{
			CallID:   frame.ToolCall.CallID,
			ToolName: frame.ToolCall.ToolName,
			Args:     frame.ToolCall.Args,
		})

	case stream.FrameToolResult:
		for i := range current.ToolInvocations {
			inv := &current.ToolInvocations[i]
			if inv.CallID != frame.ToolResult.CallID {
				continue
			}
			inv.Result = frame.ToolResult.Result
			inv.Completed = true

			var outcome toolOutcome
			if err := json.Unmarshal(frame.ToolResult.Result, &outcome); err == nil {
				inv.Succeeded = outcome.Success
				if outcome.Message != "" {
					indicator := "✗"
					if outcome.Success {
						indicator = "✓"
					}
					current.Content += "\n" + indicator + " " + outcome.Message + "\n"
				}
			}
			break
		}

	case stream.FrameFinish:
		s.submitted = ""
		s.state = StateIdle

	case stream.FrameError:
		current.Content += "\n⚠ " + frame.Error.Message
		// The failed submission returns to the draft for retry.
		if s.draft == "" {
			s.draft = s.submitted
		}
		s.submitted = ""
		s.state = StateIdle
	}

	return nil
}

// Clear discards the transcript and returns to Idle. The draft survives.
func (s *Session) Clear() {
	s.messages = nil
	s.submitted = ""
	s.state = StateIdle
}
