package tools

import (
	"context"

	"github.com/wishkeep/wishkeep/internal/stream"
)

// sinkKey uses an empty struct for a zero-allocation context key.
type sinkKey struct{}

// FrameSink receives frames produced during tool execution. The streaming
// layer binds a sink to the response stream so tool-call and tool-result
// frames interleave with the model's text in order.
type FrameSink interface {
	// Emit delivers one frame. Implementations must tolerate being called
	// from the goroutine running the model's tool loop.
	Emit(f stream.Frame)
}

// SinkFromContext retrieves the FrameSink from context.
// Returns nil if not set, allowing non-streaming code paths to run tools
// without emitting anything.
func SinkFromContext(ctx context.Context) FrameSink {
	sink, _ := ctx.Value(sinkKey{}).(FrameSink)
	return sink
}

// ContextWithSink stores a FrameSink in context for the duration of a turn.
func ContextWithSink(ctx context.Context, sink FrameSink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}
