package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"church-admin-go/pkg/logger"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimitRecorder interface {
	RateLimited(scope string)
}

// NewRateLimit limits requests per client address. A nil limiter lets every
// request through.
func NewRateLimit(limiter Limiter, scope string, recorder RateLimitRecorder, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientAddr(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Error("ratelimit: limiter failed", "scope", scope, "error", err)
			}
			if !allowed {
				recorder.RateLimited(scope)
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
