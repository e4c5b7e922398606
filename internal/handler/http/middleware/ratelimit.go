package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/response"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-client limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	rps     rate.Limit
	burst   int
	clock   clockwork.Clock
	mu      sync.Mutex
	clients map[string]*clientLimiter
	// lastPrune bounds how often allow sweeps the client map.
	lastPrune time.Time
}

func NewRateLimiter(rps float64, burst int, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		clock:     clock,
		clients:   make(map[string]*clientLimiter),
		lastPrune: clock.Now(),
	}
}

// Prune drops limiters idle for longer than idleLimiterTTL and reports how
// many were dropped.
func (l *RateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prune(l.clock.Now())
}

func (l *RateLimiter) prune(now time.Time) int {
	pruned := 0
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > idleLimiterTTL {
			delete(l.clients, k)
			pruned++
		}
	}
	l.lastPrune = now
	return pruned
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.lastPrune) >= idleLimiterTTL {
		l.prune(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Handler limits requests per client IP.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
