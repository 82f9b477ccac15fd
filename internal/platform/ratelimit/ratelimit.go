package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"invest/internal/platform/core"
)

const idleTTL = 10 * time.Minute

// Limiter keeps one token bucket per key (client IP).
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
	now       func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing perSecond sustained events with the given burst per key.
func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiters:  make(map[string]*entry),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(5 * time.Minute),
		now:       time.Now,
	}
}

// Allow consumes a token for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.cleanupAt) {
		l.cleanup(now)
		l.cleanupAt = now.Add(5 * time.Minute)
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RetryAfter is the whole-second wait for one token to refill.
func (l *Limiter) RetryAfter() int {
	if l.rate <= 0 {
		return 60
	}
	secs := int(math.Ceil(1 / float64(l.rate)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Active returns the number of tracked keys.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// cleanup must be called with mu held.
func (l *Limiter) cleanup(now time.Time) {
	cutoff := now.Add(-idleTTL)
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// Middleware throttles POST requests per client IP; other methods pass through.
func Middleware(l *Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		if !l.Allow(core.ClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.RetryAfter()))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
