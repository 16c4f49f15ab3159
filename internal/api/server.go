package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/log"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     log.Logger
	Dispatcher Streamer                 // Required
	Categories assistant.CategoryLister // Required
	Tokens     map[string]string        // Required: bearer token -> owner ID
	Pool       *pgxpool.Pool            // Optional: nil disables the DB ping in /ready
}

// Server is the HTTP API server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.Categories == nil {
		return nil, errors.New("category lister is required")
	}
	if len(cfg.Tokens) == 0 {
		return nil, errors.New("at least one API token is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ah := &assistantHandler{dispatcher: cfg.Dispatcher, logger: logger}
	ch := &categoriesHandler{categories: cfg.Categories, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assistant/stream", ah.stream)
	mux.HandleFunc("GET /api/categories", ch.list)

	// Middleware stack, outermost first: Recovery -> Logging -> Auth -> Routes.
	var handler http.Handler = mux
	handler = authMiddleware(cfg.Tokens, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.HandleFunc("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
