package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handler := rl.Middleware(okHandler())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, do("203.0.113.7").Code)

	limited := do("203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "61", limited.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", limited.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusOK, do("203.0.113.8").Code, "other clients are unaffected")

	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do("203.0.113.7").Code, "window resets")
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	allowed, _ := rl.allow("a")
	require.True(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, _ = rl.allow("b")
	require.True(t, allowed)

	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "first forwarded entry", forwarded: "203.0.113.7, 10.0.0.1", remoteAddr: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "real ip", realIP: "198.51.100.4", remoteAddr: "10.0.0.2:1234", want: "198.51.100.4"},
		{name: "remote addr host", remoteAddr: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "nothing known", remoteAddr: "", want: "unknown"},
		{name: "blank forwarded falls through", forwarded: " , 10.0.0.1", remoteAddr: "192.0.2.9:80", want: "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
