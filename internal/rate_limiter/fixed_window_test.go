package ratelimiter

import (
	"testing"
	"time"

	"github.com/SeakMengs/BizCard/internal/config"
	"go.uber.org/zap"
)

func newTestLimiter(requests int, frame time.Duration, enabled bool) (*FixedWindowRateLimiter, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(config.RateLimiterConfig{
		RequestsPerTimeFrame: requests,
		TimeFrame:            frame,
		Enabled:              enabled,
	}, zap.NewNop().Sugar())
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestFixedWindowAllow(t *testing.T) {
	rl, now := newTestLimiter(2, time.Minute, true)

	for i := range 2 {
		if ok, _ := rl.Allow("127.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := rl.Allow("127.0.0.1")
	if ok {
		t.Fatal("third request should be limited")
	}
	if retryAfter != time.Minute {
		t.Errorf("expected retry after 1m, got %v", retryAfter)
	}

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("other clients have their own window")
	}

	*now = now.Add(time.Minute)
	if ok, _ := rl.Allow("127.0.0.1"); !ok {
		t.Error("window should reset after the time frame")
	}
}

func TestFixedWindowDisabled(t *testing.T) {
	rl, _ := newTestLimiter(0, time.Minute, false)

	for range 10 {
		if ok, _ := rl.Allow("127.0.0.1"); !ok {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestFixedWindowEvictsExpired(t *testing.T) {
	rl, now := newTestLimiter(1, time.Second, true)

	rl.Allow("a")
	rl.Allow("b")
	*now = now.Add(2 * time.Second)
	rl.Allow("c")

	if len(rl.windows) != 1 {
		t.Errorf("expected only the fresh window to remain, got %d", len(rl.windows))
	}
}
