package api

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDMaxLen = 64
)

type ctxKey struct{}

// Handler returns the router wrapped in the middleware chain, outermost first:
// request id, access log, panic recovery, CORS, rate limiting.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.router

	if a.cfg.RateLimit.RPS > 0 {
		h = newRateLimiter(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst).middleware(a, h)
	}

	h = handlers.CORS(
		handlers.AllowedOrigins(a.cfg.CORS.AllowOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(h)

	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{a.logger}),
	)(h)

	h = handlers.CustomLoggingHandler(io.Discard, h, a.logRequest)

	return requestID(h)
}

// recoveryLogger reports recovered panics through zap with the stack attached.
type recoveryLogger struct {
	logger *zap.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered", zap.String("panic", fmt.Sprint(v...)), zap.Stack("stack"))
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID propagates X-Request-ID, generating one when absent or oversized.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > requestIDMaxLen {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (a *API) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	fields := []zap.Field{
		zap.Int("status", p.StatusCode),
		zap.String("method", p.Request.Method),
		zap.String("path", p.URL.Path),
		zap.String("query", p.URL.RawQuery),
		zap.String("ip", clientIP(p.Request)),
		zap.Int("size", p.Size),
		zap.Duration("latency", time.Since(p.TimeStamp)),
		zap.String("request_id", RequestID(p.Request.Context())),
	}

	switch {
	case p.StatusCode >= 500:
		a.logger.Error("request failed", fields...)
	case p.StatusCode >= 400:
		a.logger.Warn("client error", fields...)
	default:
		a.logger.Info("request completed", fields...)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// rateLimiter keeps one token bucket per client IP. Idle entries are pruned
// on access once per staleAfter interval.
type rateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*client
	r          rate.Limit
	burst      int
	lastPrune  time.Time
	staleAfter time.Duration
	now        func() time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		clients:    make(map[string]*client),
		r:          rate.Limit(rps),
		burst:      burst,
		staleAfter: 3 * time.Minute,
		now:        time.Now,
	}
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > rl.staleAfter {
		for key, c := range rl.clients {
			if now.Sub(c.seen) > rl.staleAfter {
				delete(rl.clients, key)
			}
		}
		rl.lastPrune = now
	}

	if c, ok := rl.clients[ip]; ok {
		c.seen = now
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: now}
	return l
}

func (rl *rateLimiter) middleware(a *API, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			a.Response(w, http.StatusTooManyRequests, errorResponse{
				Error:   "rate_limited",
				Message: "too many requests",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
