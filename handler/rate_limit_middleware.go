// file: handler/rate_limit_middleware.go

package handler

import (
	"context"
	"fmt"
	"go-auth-api/common"
	"go-auth-api/config"
	"go-auth-api/logger"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CounterStore increments a fixed-window counter and reports the new
// count plus the time left until the window resets. The first hit in a
// window starts it; counters vanish at the boundary.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// MemoryCounterStore keeps windows in a mutex-guarded map. Counter
// increments are the only shared mutable state in the request path, so
// this single lock is all the coordination the process needs.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*windowCounter
	now     func() time.Time
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		windows: make(map[string]*windowCounter),
		now:     time.Now,
	}
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	wc, ok := s.windows[key]
	if !ok || !now.Before(wc.resetAt) {
		wc = &windowCounter{resetAt: now.Add(window)}
		s.windows[key] = wc
	}
	wc.count++

	return wc.count, wc.resetAt.Sub(now), nil
}

// RedisCounterStore implements the same fixed-window semantics on Redis
// atomics so several instances can share one budget.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// The TTL is set only on the first hit in the window.
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter bounds requests per client per route class within a fixed
// window. One instance per class; the class name namespaces the keys.
type RateLimiter struct {
	name    string
	max     int
	window  time.Duration
	message string
	store   CounterStore
}

func NewRateLimiter(name string, rule config.RateLimitRule, message string, store CounterStore) *RateLimiter {
	return &RateLimiter{
		name:    name,
		max:     rule.Max,
		window:  rule.Window,
		message: message,
		store:   store,
	}
}

// Middleware rejects requests over budget with 429 and the standard
// rate-limit headers; under budget it annotates the response with the
// remaining allowance and passes through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", l.name, clientIP(r))

		count, resetIn, err := l.store.Incr(r.Context(), key, l.window)
		if err != nil {
			// Fail open: an unreachable counter store must not take
			// the API down with it.
			logger.Log.WithError(err).Warn("Rate limit store unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		remaining := int64(l.max) - count
		if remaining < 0 {
			remaining = 0
		}
		resetAt := time.Now().Add(resetIn).Unix()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))

		if count > int64(l.max) {
			retryAfter := int(resetIn.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.WithFields(logrus.Fields{
				"class":    l.name,
				"key":      key,
				"endpoint": r.URL.Path,
			}).Warn("Rate limit exceeded")

			common.NewAppError(http.StatusTooManyRequests, l.message, nil).Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the originating client address, honoring the
// forwarding headers set by reverse proxies.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
