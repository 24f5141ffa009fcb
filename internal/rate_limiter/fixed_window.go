package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/BizCard/internal/config"
	"go.uber.org/zap"
)

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter counts requests per key inside fixed time frames.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	cfg     config.RateLimiterConfig
	logger  *zap.SugaredLogger
	windows map[string]*window
	now     func() time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		cfg:     cfg,
		logger:  logger,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether the key may make another request and, if not, how long
// until its window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.cfg.Enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.cfg.TimeFrame {
		rl.windows[key] = &window{start: now, count: 1}
		rl.evictExpired(now)
		return true, 0
	}

	if w.count >= rl.cfg.RequestsPerTimeFrame {
		retryAfter := rl.cfg.TimeFrame - now.Sub(w.start)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %v", key, retryAfter)
		return false, retryAfter
	}

	w.count++
	return true, 0
}

// Drop windows that ended so the map does not grow with every client seen.
func (rl *FixedWindowRateLimiter) evictExpired(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.cfg.TimeFrame {
			delete(rl.windows, key)
		}
	}
}
