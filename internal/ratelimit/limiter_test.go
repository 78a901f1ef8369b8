package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a controllable time source for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(rate int, window time.Duration) (*Limiter, *fakeClock) {
	clock := newFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l := New(rate, window)
	l.now = clock.Now
	return l, clock
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d: expected allow", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected reject after bucket drained")
	}
}

func TestKeysIsolated(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("b") {
		t.Error("second key should have its own bucket")
	}
	if l.Allow("a") {
		t.Error("first key should be drained")
	}
}

func TestRefillOverTime(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		l.Allow("k")
	}
	if l.Allow("k") {
		t.Fatal("expected reject while drained")
	}

	// 10 per minute refills one token every 6 seconds.
	clock.Advance(6 * time.Second)
	if !l.Allow("k") {
		t.Error("expected one token after partial refill")
	}
	if l.Allow("k") {
		t.Error("expected only one token to have refilled")
	}

	clock.Advance(time.Minute)
	for i := 0; i < 10; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d after full refill: expected allow", i+1)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	l, clock := newTestLimiter(6, time.Minute)

	if got := l.RetryAfter("k"); got != 0 {
		t.Errorf("fresh key RetryAfter = %v, want 0", got)
	}

	for i := 0; i < 6; i++ {
		l.Allow("k")
	}

	// 6 per minute means a token every 10 seconds.
	if got := l.RetryAfter("k"); got != 10*time.Second {
		t.Errorf("RetryAfter = %v, want 10s", got)
	}

	clock.Advance(10 * time.Second)
	if got := l.RetryAfter("k"); got != 0 {
		t.Errorf("RetryAfter after refill = %v, want 0", got)
	}
}
