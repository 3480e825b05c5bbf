package ratelimit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	internal "github.com/i4ybrid/trip-planner/internal"
)

// Limiter is chi middleware enforcing a fixed-window request limit per
// caller. Callers are keyed by user ID when present, remote IP otherwise.
type Limiter struct {
	store    Store
	requests int64
	window   time.Duration
	logger   *slog.Logger
}

func NewLimiter(store Store, requests int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:    store,
		requests: int64(requests),
		window:   window,
		logger:   logger,
	}
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.keyFor(r)

		count, err := l.store.Incr(r.Context(), key, l.window)
		if err != nil {
			// The store being down must not take the API with it.
			l.logger.Error("rate limit store unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > l.requests {
			l.logger.Warn("rate limit exceeded", "key", key, "count", count)
			appErr := internal.NewRateLimitedError(fmt.Sprintf("rate limit of %d requests per %s exceeded", l.requests, l.window))
			status, body := appErr.ToHTTPResponse()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) keyFor(r *http.Request) string {
	if userID := internal.UserIDFromContext(r.Context()); userID != 0 {
		return fmt.Sprintf("ratelimit:user:%d", userID)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return fmt.Sprintf("ratelimit:ip:%s", host)
}
