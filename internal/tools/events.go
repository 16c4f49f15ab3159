package tools

import (
	"encoding/json"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"

	"github.com/wishkeep/wishkeep/internal/stream"
)

// WithEvents wraps a typed tool handler to emit frame events around each
// execution. This generic form plugs directly into genkit.DefineTool().
//
// The wrapper:
//  1. Retrieves the FrameSink from context (may be nil for non-streaming calls)
//  2. Emits a tool-call frame with a fresh call ID and the marshaled input
//  3. Calls the original handler
//  4. Emits a tool-result frame carrying the handler's Result
//
// With no sink in context the wrapper passes straight through, so the same
// registered tools serve both streaming and plain invocations.
func WithEvents[In any](name string, fn func(*ai.ToolContext, In) (Result, error)) func(*ai.ToolContext, In) (Result, error) {
	return func(ctx *ai.ToolContext, input In) (Result, error) {
		sink := SinkFromContext(ctx.Context)
		if sink == nil {
			return fn(ctx, input)
		}

		callID := uuid.NewString()

		args, marshalErr := json.Marshal(input)
		if marshalErr != nil {
			args = nil
		}
		sink.Emit(stream.ToolCallFrame(callID, name, args))

		result, err := fn(ctx, input)

		payload := result
		if err != nil {
			payload = failure(nil, err.Error(), "The %s tool failed unexpectedly.", name)
		}
		data, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			data = nil
		}
		sink.Emit(stream.ToolResultFrame(callID, name, data))

		return result, err
	}
}
