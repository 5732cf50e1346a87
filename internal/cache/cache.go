// Package cache provides a small LRU cache with TTL expiry, used by the
// export worker to suppress duplicate ledger appends on message redelivery.
package cache

import "time"

// Cache is the generic key/value surface the worker codes against.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches whose expired entries need periodic
// sweeping; the TTL alone only drops entries lazily on access.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the cleanup loop for a set of registered caches, so each
// binary runs one sweeper regardless of how many caches its workers hold.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager's sweep. Not safe to call after
// StartCleanup.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins sweeping all registered caches on the given interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, cache := range m.caches {
				cache.CleanExpired()
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop ends the cleanup loop and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
