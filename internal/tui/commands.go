package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/stream"
)

// streamBufferSize absorbs frame bursts during UI render delays while
// keeping memory bounded.
const streamBufferSize = 100

// streamEvent carries either a frame or a transport error.
type streamEvent struct {
	frame stream.Frame
	err   error
}

// Bubble Tea messages for the stream lifecycle.
type streamStartedMsg struct {
	eventCh <-chan streamEvent
	cancel  context.CancelFunc
}

type frameMsg struct {
	frame stream.Frame
}

type streamErrorMsg struct {
	err error
}

// streamClosedMsg signals the transport ended. If the session never saw a
// terminal frame, Update treats this as a failure.
type streamClosedMsg struct{}

// startStream creates a command that posts the history and begins decoding
// frames. The goroutine exits when the stream ends, the context is canceled,
// or a transport error occurs; channel closure signals completion.
func (m *Model) startStream(history []assistant.Message) tea.Cmd {
	return func() tea.Msg {
		eventCh := make(chan streamEvent, streamBufferSize)
		ctx, cancel := context.WithTimeout(m.ctx, streamTimeout)

		go func() {
			defer cancel()
			defer close(eventCh)

			defer func() {
				if r := recover(); r != nil {
					select {
					case eventCh <- streamEvent{err: fmt.Errorf("stream panic: %v", r)}:
					default:
					}
				}
			}()

			err := m.client.Stream(ctx, history, func(frame stream.Frame) error {
				select {
				case eventCh <- streamEvent{frame: frame}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				select {
				case eventCh <- streamEvent{err: err}:
				default:
				}
			}
		}()

		return streamStartedMsg{eventCh: eventCh, cancel: cancel}
	}
}

// listenForStream creates a command to wait for the next stream event.
func listenForStream(eventCh <-chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		if eventCh == nil {
			return nil
		}

		event, ok := <-eventCh
		if !ok {
			return streamClosedMsg{}
		}
		if event.err != nil {
			return streamErrorMsg{err: event.err}
		}
		return frameMsg{frame: event.frame}
	}
}
