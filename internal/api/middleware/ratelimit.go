package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio/internal/api/handlers"
)

// RateLimiter implements a simple in-memory fixed-window rate limiter per client IP
type RateLimiter struct {
	clients  map[string]*clientLimit
	now      func() time.Time
	stop     chan struct{}
	requests int
	window   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

type clientLimit struct {
	resetTime time.Time
	count     int
}

// NewRateLimiter creates a new rate limiter
// requests: maximum number of requests allowed per window
// window: time window duration (e.g., 1 minute)
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimit),
		now:      time.Now,
		stop:     make(chan struct{}),
		requests: requests,
		window:   window,
	}

	// Cleanup old entries every window duration
	go rl.cleanup()

	return rl
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ClientIP(r)

		allowed, retryAfter := rl.allow(clientID)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			handlers.WriteError(w, http.StatusTooManyRequests, "RateLimitExceeded",
				"Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow checks if a client is allowed to make a request.
// When it is not, the time until its window resets is returned.
func (rl *RateLimiter) allow(clientID string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now().UTC()

	client, exists := rl.clients[clientID]
	if !exists {
		rl.clients[clientID] = &clientLimit{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true, 0
	}

	if now.After(client.resetTime) {
		client.count = 1
		client.resetTime = now.Add(rl.window)
		return true, 0
	}

	if client.count < rl.requests {
		client.count++
		return true, 0
	}

	return false, client.resetTime.Sub(now)
}

// cleanup removes expired client entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now().UTC()
	for clientID, client := range rl.clients {
		if now.After(client.resetTime) {
			delete(rl.clients, clientID)
		}
	}
}

// ClientIP extracts the client IP from the request: the first X-Forwarded-For
// entry, then X-Real-IP, then the connection's remote host, then "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}
