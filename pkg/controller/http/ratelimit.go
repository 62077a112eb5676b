package http

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL      = 15 * time.Minute
	limiterCleanupEvery = 2 * time.Minute
)

// limiterStore keeps one token bucket per client key
type limiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	if burst < 1 {
		burst = 1
	}
	return &limiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *limiterStore) cleanup(now time.Time) {
	cutoff := now.Add(-limiterIdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// startJanitor removes idle clients until ctx is done
func (s *limiterStore) startJanitor(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupEvery)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.cleanup(now)
			}
		}
	}()
}

// clientKey returns the client IP. RealIP middleware has already replaced
// RemoteAddr when a proxy header is present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

var errRateLimited = goerr.New("too many requests, try again later")

// rateLimiter holds one token bucket per client, shared by every route it
// guards. A nil store means the limit is disabled.
type rateLimiter struct {
	store      *limiterStore
	retryAfter string
}

// newRateLimiter allows rps requests per second per client with the given
// burst. A zero or negative rps disables the limit.
func newRateLimiter(ctx context.Context, rps float64, burst int) *rateLimiter {
	if rps <= 0 {
		return &rateLimiter{}
	}

	store := newLimiterStore(rps, burst)
	store.startJanitor(ctx)

	return &rateLimiter{
		store:      store,
		retryAfter: strconv.Itoa(int(math.Ceil(1 / rps))),
	}
}

// limit returns middleware that calls reject instead of next when the client
// is over its rate. Retry-After is set before reject runs.
func (l *rateLimiter) limit(reject http.HandlerFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !l.store.get(key, time.Now()).Allow() {
				ctxlog.From(r.Context()).Warn("Rate limit exceeded", "client", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", l.retryAfter)
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rejectJSON answers a rate limited API or download request
func rejectJSON(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, errRateLimited, http.StatusTooManyRequests)
}
