// Package middleware provides HTTP middleware for the fileforge API.
package middleware

import (
	"net/http"
	"strconv"
)

// CORS returns CORS middleware for browser clients.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Limiter caps the number of concurrently running conversions using a
// non-blocking channel semaphore. Conversions are CPU- or
// external-process-bound and can run for minutes; when every slot is
// taken new requests receive 503 + Retry-After immediately rather than
// queueing behind them.
type Limiter struct {
	sem chan struct{}
}

// NewLimiter creates a limiter allowing at most maxConcurrent
// simultaneous conversions.
func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 32
	}
	return &Limiter{sem: make(chan struct{}, maxConcurrent)}
}

// Limit wraps a handler so each request must acquire a slot before
// proceeding.
func (l *Limiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Retry-After", "5")
			w.Header().Set("X-Active-Conversions", strconv.Itoa(len(l.sem)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server at capacity, retry shortly"}`))
		}
	})
}

// Active returns the number of conversion slots currently in use.
func (l *Limiter) Active() int { return len(l.sem) }
