package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultLimiterCleanupInterval is how often idle client limiters are dropped.
const DefaultLimiterCleanupInterval = 5 * time.Minute

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per client address to slow password
// guessing. Entries idle for two cleanup intervals are removed.
type LoginLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter starts the background cleanup; call Stop to end it.
func NewLoginLimiter(perSecond float64, burst int, cleanupInterval time.Duration) *LoginLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultLimiterCleanupInterval
	}
	l := &LoginLimiter{
		limit:           rate.Limit(perSecond),
		burst:           burst,
		cleanupInterval: cleanupInterval,
		clients:         make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow consumes one attempt for key.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter.Allow()
}

// Len is the number of tracked clients.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *LoginLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)
		if !l.Allow(addr) {
			log.Warn().Str("client", addr).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			writeFail(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
		next(w, r)
	}
}

// retryAfterSeconds is the time for one token to be replenished.
func (l *LoginLimiter) retryAfterSeconds() int {
	if l.limit <= 0 {
		return 1
	}
	secs := int(math.Ceil(1.0 / float64(l.limit)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *LoginLimiter) cleanup(now time.Time) {
	ttl := 2 * l.cleanupInterval

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.clients {
		if now.Sub(cl.lastAccess) > ttl {
			delete(l.clients, key)
		}
	}
}

// clientAddr is the request's remote host. RealIP has already replaced
// RemoteAddr with the forwarded address when a proxy set one.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
