package middleware

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once limiter runs dry. A nil limiter
// disables the check.
func RateLimit(log *slog.Logger, limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("too many requests", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]string{"status": "Error", "error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
