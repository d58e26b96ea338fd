package ratelimiter

import (
	"testing"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/config"
	"github.com/Vathanak-H/ScholarAward/internal/util"
)

func newTestLimiter(requests int, frame time.Duration) *FixedWindowRateLimiter {
	cfg := config.RateLimiterConfig{
		RequestsPerTimeFrame: requests,
		TimeFrame:            frame,
		Enabled:              true,
	}
	return NewFixedWindowLimiter(cfg, util.NewLogger())
}

func TestAllowUpToLimitThenDeny(t *testing.T) {
	rl := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d within limit must pass", i+1)
		}
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	if ok {
		t.Fatal("fourth request must be denied")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retryAfter = %s", retryAfter)
	}
}

func TestClientsCountedSeparately(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)

	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Fatal("first client must pass")
	}
	if ok, _ := rl.Allow("2.2.2.2"); !ok {
		t.Fatal("second client has its own window")
	}
	if ok, _ := rl.Allow("1.1.1.1"); ok {
		t.Fatal("first client is over its limit")
	}
}

func TestWindowResets(t *testing.T) {
	rl := newTestLimiter(1, 20*time.Millisecond)

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("first request must pass")
	}
	if ok, _ := rl.Allow("1.2.3.4"); ok {
		t.Fatal("second request in the same window must be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("request after the window elapsed must pass")
	}
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	cfg := config.RateLimiterConfig{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: false}
	rl := NewFixedWindowLimiter(cfg, util.NewLogger())

	for i := 0; i < 10; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatal("disabled limiter must never deny")
		}
	}
}
