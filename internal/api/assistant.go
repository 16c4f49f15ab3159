package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/stream"
	"github.com/wishkeep/wishkeep/internal/tools"
)

// maxRequestBody bounds the JSON body of a stream request.
const maxRequestBody = 1 << 20 // 1MB

// Streamer runs one conversation turn, delivering every frame to the sink.
// *assistant.Dispatcher satisfies this.
type Streamer interface {
	Stream(ctx context.Context, ownerID string, history []assistant.Message, sink tools.FrameSink)
}

// streamRequest is the body of POST /api/assistant/stream.
type streamRequest struct {
	Messages []assistant.Message `json:"messages"`
}

// assistantHandler serves the streaming conversation endpoint.
type assistantHandler struct {
	dispatcher Streamer
	logger     log.Logger
}

// encoderSink delivers frames to an SSE encoder. After the first write
// failure it drops remaining frames; a failed write means the client is gone.
type encoderSink struct {
	enc    *stream.Encoder
	logger log.Logger
	failed bool
}

func (s *encoderSink) Emit(f stream.Frame) {
	if s.failed {
		return
	}
	if err := s.enc.Encode(f); err != nil {
		s.logger.Debug("stopped streaming to client", "error", err)
		s.failed = true
	}
}

// stream handles POST /api/assistant/stream. The request carries the full
// conversation history; the response is an SSE stream of frames ending in
// exactly one terminal frame.
func (h *assistantHandler) stream(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok || ownerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "owner identity required", h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req streamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}

	if _, ok := w.(http.Flusher); !ok {
		writeError(w, http.StatusInternalServerError,
			"internal_error", "streaming not supported", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sink := &encoderSink{enc: stream.NewEncoder(w), logger: h.logger}

	h.logger.Debug("stream started", "owner_id", ownerID, "messages", len(req.Messages))
	h.dispatcher.Stream(r.Context(), ownerID, req.Messages, sink)
	h.logger.Debug("stream completed", "owner_id", ownerID)
}
