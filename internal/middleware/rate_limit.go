package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimit returns middleware enforcing a fixed-window per-minute
// request limit, keyed by user when a session is loaded and by remote
// address otherwise.
func RateLimit(limit int) func(http.Handler) http.Handler {
	var (
		mu     sync.Mutex
		window time.Time
		counts = make(map[string]int)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			mu.Lock()
			now := time.Now().Truncate(time.Minute)
			if now.After(window) {
				window = now
				clear(counts)
			}
			counts[key]++
			over := counts[key] > limit
			mu.Unlock()

			if over {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if sess := GetSession(r.Context()); sess != nil && sess.User != nil {
		return "u:" + sess.User.Subject
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "a:" + r.RemoteAddr
	}
	return "a:" + host
}
