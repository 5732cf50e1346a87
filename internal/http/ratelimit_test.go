package http

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterBlocksBurstOverLimit(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	metrics := &securityMetrics{}
	for i := 0; i < writeLimit; i++ {
		if !rl.allow("10.0.0.1", metrics) {
			t.Fatalf("write %d inside the window must pass", i+1)
		}
	}
	if rl.allow("10.0.0.1", metrics) {
		t.Fatal("write past the limit must be rejected")
	}
	if hits := atomic.LoadInt64(&metrics.rateLimitHits); hits != 1 {
		t.Fatalf("expected 1 recorded hit, got %d", hits)
	}

	// Limits are per client IP.
	if !rl.allow("10.0.0.2", metrics) {
		t.Fatal("a different client must not inherit the exhausted window")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i <= writeLimit; i++ {
		rl.allow("10.0.0.1", nil)
	}
	if rl.allow("10.0.0.1", nil) {
		t.Fatal("window must be exhausted")
	}

	rl.mu.Lock()
	rl.clients["10.0.0.1"].windowStart = time.Now().Add(-2 * writeWindow)
	rl.mu.Unlock()

	if !rl.allow("10.0.0.1", nil) {
		t.Fatal("an elapsed window must reset the budget")
	}
}
