package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
)

// Timeout cancels the request context after d. If the handler has not
// started writing by then, the client receives a JSON timeout response
// and any later output from the handler is discarded.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if !dw.markTimedOut() {
					// The handler already produced output; nothing to add.
					return
				}
				slog.Warn("request deadline exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", d,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(pkgerrors.HTTPStatusCode(pkgerrors.ErrTimeout))
				json.NewEncoder(w).Encode(map[string]string{
					"error": pkgerrors.ErrTimeout.Error(),
				})
			}
		})
	}
}

// deadlineWriter serializes access to the response so that exactly one of
// the handler and the timeout branch writes it.
type deadlineWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	started  bool
	timedOut bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timedOut {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timedOut {
		return len(b), nil
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// markTimedOut claims the response for the timeout branch. It reports
// false when the handler wrote first.
func (dw *deadlineWriter) markTimedOut() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.started {
		return false
	}
	dw.timedOut = true
	return true
}
