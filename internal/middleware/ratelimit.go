package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	last    time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	limiters sync.Map // map[string]*ipLimiter
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{rps: rate.Limit(rps), burst: burst, now: time.Now}
}

func (l *RateLimiter) limiterFor(ip string) *ipLimiter {
	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)})
	}
	il := v.(*ipLimiter)
	il.mu.Lock()
	il.last = l.now()
	il.mu.Unlock()
	return il
}

// Allow reports whether ip may make another request now.
func (l *RateLimiter) Allow(ip string) bool {
	return l.limiterFor(ip).limiter.AllowN(l.now(), 1)
}

// Sweep drops limiters idle for longer than idle.
func (l *RateLimiter) Sweep(idle time.Duration) {
	now := l.now()
	l.limiters.Range(func(key, val any) bool {
		il := val.(*ipLimiter)
		il.mu.Lock()
		stale := now.Sub(il.last) > idle
		il.mu.Unlock()
		if stale {
			l.limiters.Delete(key)
		}
		return true
	})
}

// Run sweeps every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep(idle)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(errorResponse{
				Error:         "too many requests, please wait a moment",
				CorrelationID: GetCorrelationID(r.Context()),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP expects chi's RealIP to have already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
