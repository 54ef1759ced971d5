package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// withCORS allows the configured browser origin and answers preflight
// requests for any path with an empty 200. "*" allows every origin.
func withCORS(allowedOrigin func() string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := allowedOrigin()
		if origin != "" && (allowed == "*" || origin == allowed) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
			h.Set("Access-Control-Expose-Headers", "ETag, "+RequestIDHeader)
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimiter hands out one token bucket per client IP. A zero rate disables it.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{limiters: make(map[string]*rate.Limiter)}
	rl.SetLimit(requestsPerSecond, burst)
	return rl
}

// SetLimit changes the rate for existing and future clients.
func (rl *RateLimiter) SetLimit(requestsPerSecond float64, burst int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limit = rate.Limit(requestsPerSecond)
	rl.burst = max(burst, 1)
	for _, l := range rl.limiters {
		l.SetLimit(rl.limit)
		l.SetBurst(rl.burst)
	}
}

// Allow reports whether ip may make a request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	if rl.limit <= 0 {
		rl.mu.Unlock()
		return true
	}
	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

// clientIP is the peer address. The server binds to localhost, so forwarding
// headers are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func withRateLimit(rl *RateLimiter, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(ip) {
			logger.Warn("rate limited", "ip", ip, "path", r.URL.Path, "requestId", RequestID(r.Context()))
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests", Kind: "RateLimited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				logger.Error("handler panic", "path", r.URL.Path, "panic", p, "requestId", RequestID(r.Context()))
				writeJSON(rec, http.StatusInternalServerError, errorBody{Error: "internal error", Kind: "Internal"})
			}
			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else if rec.status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"requestId", RequestID(r.Context()),
				"elapsed", time.Since(start),
			)
		}()
		next.ServeHTTP(rec, r)
	})
}

// isJSON reports whether a request body is declared as JSON or left untyped.
func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.HasPrefix(strings.ToLower(ct), "application/json")
}
