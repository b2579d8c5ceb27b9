// SPDX-License-Identifier: MIT

package log

import (
	"net/http"
	"time"
)

// statusWriter captures the response status and size for access logging.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Middleware returns an HTTP middleware that attaches a request-scoped logger
// (enriched with the request ID, if any) to the request context and emits one
// access-log entry per completed request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := WithContext(r.Context(), Base())
			ctx := logger.WithContext(r.Context())

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Int("status", sw.status).
				Int64("bytes", sw.written).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
