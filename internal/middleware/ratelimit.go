package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// LimiterStore keeps one token bucket per client key and forgets keys that
// stay idle longer than idleTTL.
type LimiterStore struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type LimiterOption func(*LimiterStore)

func WithIdleTTL(d time.Duration) LimiterOption {
	return func(s *LimiterStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) LimiterOption {
	return func(s *LimiterStore) { s.cleanupEvery = d }
}

func NewLimiterStore(rps float64, burst int, opts ...LimiterOption) *LimiterStore {
	s := &LimiterStore{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve takes a token for key. It returns zero when the call may proceed,
// otherwise how long the caller should wait before retrying.
func (s *LimiterStore) Reserve(key string) time.Duration {
	now := s.now()
	lim := s.get(key, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return time.Second
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

func (s *LimiterStore) get(key string, now time.Time) *rate.Limiter {
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

func (s *LimiterStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor evicts idle keys until ctx is cancelled.
func (s *LimiterStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// RateLimitEvent records one limiter decision.
type RateLimitEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// RateLimitStats persists limiter decisions. Failures never fail the request.
type RateLimitStats interface {
	Record(ctx context.Context, ev RateLimitEvent) error
}

type RateLimitConfig struct {
	Store   *LimiterStore
	Stats   RateLimitStats
	KeyFunc func(c echo.Context) string
}

// RateLimit rejects requests over budget with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Store == nil {
				return next(c)
			}

			key := cfg.KeyFunc(c)
			wait := cfg.Store.Reserve(key)
			allowed := wait == 0

			if cfg.Stats != nil {
				_ = cfg.Stats.Record(c.Request().Context(), RateLimitEvent{
					Key:     key,
					Allowed: allowed,
					Method:  c.Request().Method,
					Path:    c.Path(),
					At:      time.Now(),
				})
			}

			if !allowed {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return apperrors.RateLimited("Too many requests, please try again later")
			}
			return next(c)
		}
	}
}
