package middleware

import (
	"net/http"
	"time"

	"church-admin-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRequestLog attaches a logger carrying the request id to the request
// context and writes one access line per request. Server errors log at warn.
func NewRequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With("request_id", chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"remote", r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				reqLog.Warn("http: request failed", args...)
				return
			}
			reqLog.Debug("http: request", args...)
		})
	}
}
