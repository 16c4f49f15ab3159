package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/wishkeep/wishkeep/internal/log"
)

type ownerIDCtxKey struct{}

// ownerIDFromContext retrieves the authenticated owner from the request
// context. Returns empty string and false if not set.
func ownerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDCtxKey{}).(string)
	return ownerID, ok
}

// loggingWriter wraps http.ResponseWriter to capture status and size.
// Implements Flusher for SSE streaming and Unwrap for ResponseController.
type loggingWriter struct {
	w            http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lw *loggingWriter) Header() http.Header {
	return lw.w.Header()
}

func (lw *loggingWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.w.WriteHeader(code)
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if lw.statusCode == 0 {
		lw.statusCode = http.StatusOK
	}
	n, err := lw.w.Write(b)
	lw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher for SSE streaming support.
func (lw *loggingWriter) Flush() {
	if f, ok := lw.w.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (lw *loggingWriter) Unwrap() http.ResponseWriter {
	return lw.w
}

// recoveryMiddleware recovers from panics to prevent server crashes.
func recoveryMiddleware(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &loggingWriter{w: w}

			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"headers_sent", wrapper.statusCode != 0,
					)

					if wrapper.statusCode == 0 {
						writeError(w, http.StatusInternalServerError,
							"internal_error", "internal server error", logger)
					}
				}
			}()
			next.ServeHTTP(wrapper, r)
		})
	}
}

// loggingMiddleware logs request details including latency, status, and
// response size. Reuses an existing *loggingWriter from outer middleware to
// avoid double-wrapping the ResponseWriter.
func loggingMiddleware(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapper, ok := w.(*loggingWriter)
			if !ok {
				wrapper = &loggingWriter{w: w}
			}

			next.ServeHTTP(wrapper, r)

			status := wrapper.statusCode
			if status == 0 {
				status = http.StatusOK
			}

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", wrapper.bytesWritten,
				"duration", time.Since(start),
				"ip", r.RemoteAddr,
			)
		})
	}
}

// authMiddleware authenticates requests with a static bearer token and puts
// the resolved owner ID into the request context. Token comparison is
// constant time; every configured token is checked so lookup time does not
// depend on which token matched.
func authMiddleware(tokens map[string]string, logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "missing bearer token", logger)
				return
			}
			presented := header[len(prefix):]

			var ownerID string
			for token, user := range tokens {
				if subtle.ConstantTimeCompare([]byte(token), []byte(presented)) == 1 {
					ownerID = user
				}
			}
			if ownerID == "" {
				logger.Warn("rejected request with unknown token",
					"path", r.URL.Path, "ip", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "invalid bearer token", logger)
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDCtxKey{}, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
