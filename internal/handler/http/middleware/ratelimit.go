package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/handler/http/response"
)

// TokenBucket is an in-memory per-client rate limiter.
type TokenBucket struct {
	capacity int
	rate     int
	mu       sync.Mutex
	state    map[string]*bucket
	swept    time.Time
	now      func() time.Time
}

// sweepInterval bounds how often allow scans for idle clients.
const sweepInterval = time.Minute

type bucket struct {
	tokens int
	last   time.Time
}

// NewTokenBucket creates a limiter holding capacity tokens, refilled at
// perMinute tokens per minute.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
		now:      time.Now,
	}
}

// Handler enforces the limit per client IP.
func (l *TokenBucket) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			response.TooManyRequests(w, "Terlalu banyak permintaan. Silakan coba lagi nanti.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}

func (l *TokenBucket) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) >= sweepInterval {
		l.sweep(now)
	}

	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}

	refill := int(now.Sub(b.last).Minutes() * float64(l.rate))
	if refill > 0 {
		b.tokens = min(b.tokens+refill, l.capacity)
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets that have refilled to capacity. A full bucket behaves
// exactly like a missing one, so eviction never changes a decision.
func (l *TokenBucket) sweep(now time.Time) {
	for key, b := range l.state {
		if b.tokens+int(now.Sub(b.last).Minutes()*float64(l.rate)) >= l.capacity {
			delete(l.state, key)
		}
	}
	l.swept = now
}
