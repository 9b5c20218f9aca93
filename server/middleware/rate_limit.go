package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// SwipeLimiter throttles request bursts per client IP. Swipe ingestion is
// cheap, so the limits are generous; the point is to keep a runaway client
// from saturating the candidate queries.
type SwipeLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewSwipeLimiter(rps float64, burst int) *SwipeLimiter {
	sl := &SwipeLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go sl.evictStale()
	return sl
}

func (sl *SwipeLimiter) get(key string) *rate.Limiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if entry, ok := sl.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}
	entry := &limiterEntry{
		limiter:  rate.NewLimiter(sl.rps, sl.burst),
		lastSeen: time.Now(),
	}
	sl.limiters[key] = entry
	return entry.limiter
}

// evictStale drops limiters for clients idle longer than three minutes.
func (sl *SwipeLimiter) evictStale() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		sl.mu.Lock()
		for key, entry := range sl.limiters {
			if time.Since(entry.lastSeen) > 3*time.Minute {
				delete(sl.limiters, key)
			}
		}
		sl.mu.Unlock()
	}
}

// Middleware rejects over-limit requests with 429.
func (sl *SwipeLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sl.get(c.RealIP()).Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
