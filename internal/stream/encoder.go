package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Encoder writes frames to a writer in SSE format. When the writer is an
// http.Flusher (as http.ResponseWriter is during streaming), every frame is
// flushed immediately so clients see it without buffering delay.
type Encoder struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder creates an Encoder on w.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w}
	if f, ok := w.(http.Flusher); ok {
		e.flusher = f
	}
	return e
}

// Encode writes one frame as an SSE event: "event: <type>\ndata: <json>\n\n".
func (e *Encoder) Encode(f Frame) error {
	payload, err := f.payload()
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s frame: %w", f.Type, err)
	}

	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", f.Type, data); err != nil {
		return fmt.Errorf("failed to write %s frame: %w", f.Type, err)
	}

	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
