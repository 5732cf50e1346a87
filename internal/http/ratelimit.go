package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// writeLimit caps mutating requests per client IP per window. The mobile
	// client flushes a backlog of offline edits in one burst on reconnect,
	// so the ceiling has to clear a full sync while still containing
	// runaway scripts. Reads are never limited; dashboards poll freely.
	writeLimit  = 60
	writeWindow = time.Minute

	limiterCleanupEvery = 5 * time.Minute
	limiterStaleAfter   = 10 * time.Minute
)

// rateLimiter counts mutating requests per client IP over a fixed window
// anchored at the window's first write.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	windowStart time.Time
	lastSeen    time.Time
	writes      int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup periodically drops client entries that have gone quiet, so
// the map doesn't grow with every IP ever seen.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStaleClients()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropStaleClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-limiterStaleAfter)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop shuts down the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a write from the given IP fits the current window.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok {
		rl.clients[clientIP] = &clientWindow{windowStart: now, lastSeen: now, writes: 1}
		return true
	}

	client.lastSeen = now
	if now.Sub(client.windowStart) > writeWindow {
		client.windowStart = now
		client.writes = 1
		return true
	}

	client.writes++
	if client.writes > writeLimit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
