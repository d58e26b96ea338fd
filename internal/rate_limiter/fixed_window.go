package ratelimiter

import (
	"sync"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/config"
	"go.uber.org/zap"
)

type fixedWindow struct {
	count   int
	startAt time.Time
}

// FixedWindowRateLimiter counts requests per client in fixed time frames.
// A client's counter resets when its window elapses.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	cfg     config.RateLimiterConfig
	logger  *zap.SugaredLogger
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		windows: make(map[string]*fixedWindow),
		cfg:     cfg,
		logger:  logger,
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the client may proceed. When the limit is hit it
// returns the time left until the client's window resets.
func (rl *FixedWindowRateLimiter) Allow(client string) (bool, time.Duration) {
	if !rl.cfg.Enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	window, ok := rl.windows[client]
	if !ok || now.Sub(window.startAt) >= rl.cfg.TimeFrame {
		rl.windows[client] = &fixedWindow{count: 1, startAt: now}
		return true, 0
	}

	if window.count >= rl.cfg.RequestsPerTimeFrame {
		retryAfter := rl.cfg.TimeFrame - now.Sub(window.startAt)
		rl.logger.Debugf("Rate limit exceeded for client: %s, retry after: %s", client, retryAfter)
		return false, retryAfter
	}

	window.count++
	return true, 0
}

// cleanupLoop drops expired windows so the map does not grow with every
// client ever seen.
func (rl *FixedWindowRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.TimeFrame)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for client, window := range rl.windows {
			if now.Sub(window.startAt) >= rl.cfg.TimeFrame {
				delete(rl.windows, client)
			}
		}
		rl.mu.Unlock()
	}
}
