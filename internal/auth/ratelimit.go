package auth

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"golang.org/x/time/rate"
)

// LoginLimiter is a per-IP token bucket for the login and refresh endpoints.
type LoginLimiter struct {
	*transport.BaseHandler

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	r        rate.Limit
	burst    int
	evictTTL time.Duration
}

// NewLoginLimiter starts the idle-entry cleanup loop; it stops when ctx is done.
func NewLoginLimiter(ctx context.Context, perSecond float64, burst int, evictTTL time.Duration) *LoginLimiter {
	if burst <= 0 {
		burst = 1
	}
	if evictTTL <= 0 {
		evictTTL = 10 * time.Minute
	}
	rl := &LoginLimiter{
		BaseHandler: transport.NewBaseHandler(nil),
		limiters:    make(map[string]*rate.Limiter),
		lastSeen:    make(map[string]time.Time),
		r:           rate.Limit(perSecond),
		burst:       burst,
		evictTTL:    evictTTL,
	}
	go rl.cleanupLoop(ctx)
	return rl
}

// Allow reports whether the given IP is within its rate limit.
func (rl *LoginLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.r, rl.burst)
		rl.limiters[ip] = l
	}
	rl.lastSeen[ip] = time.Now()
	return l.Allow()
}

func (rl *LoginLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *LoginLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := now.Add(-rl.evictTTL)
	for ip, last := range rl.lastSeen {
		if last.Before(cutoff) {
			delete(rl.limiters, ip)
			delete(rl.lastSeen, ip)
		}
	}
}

func (rl *LoginLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.evictTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

// Middleware applies the limit keyed on r.RemoteAddr. chi's RealIP must run
// first so X-Forwarded-For is honoured behind a proxy.
func (rl *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !rl.Allow(ip) {
			rl.Logger.Warn("login rate limit exceeded", "ip", ip)
			w.Header().Set("Retry-After", "60")
			rl.WriteAppError(w, internal.NewTooManyRequestsError("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
