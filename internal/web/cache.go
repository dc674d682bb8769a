package web

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "recurcal/internal/log"
)

// resultCache keeps recent computations keyed by their canonical query so
// that repeated page loads and snapshot captures skip re-expansion.
// A zero TTL disables it.
type resultCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     computed
	updatedAt time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *resultCache) get(key string) (computed, bool) {
	if c.ttl <= 0 {
		return computed{}, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.updatedAt) >= c.ttl {
		return computed{}, false
	}
	return e.value, true
}

func (c *resultCache) put(key string, v computed) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: v, updatedAt: c.now()}
	c.mu.Unlock()
}

// purge drops expired entries and returns how many were removed.
func (c *resultCache) purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.updatedAt) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// newJanitor schedules cache purges on the given cron spec. The caller
// starts and stops the returned scheduler.
func newJanitor(spec string, c *resultCache) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		if n := c.purge(); n > 0 {
			appLog.Debug("cache purge", "removed", n, "remaining", c.len())
		}
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}
