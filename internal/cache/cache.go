// SPDX-License-Identifier: MIT

// Package cache provides byte caches with TTL support.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
)

// Cache provides thread-safe byte caching with expiration.
type Cache interface {
	// Get returns the value for key. Missing and expired entries report false.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value for ttl. A non-positive ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
	Stats() Stats
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64 // Get found a live entry
	Misses      int64 // Get found nothing or an expired entry
	Sets        int64
	Evictions   int64 // expired entries removed by the janitor
	CurrentSize int
}

type entry struct {
	value      []byte
	expiration time.Time // zero means no expiry
}

func (e *entry) expiredAt(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
	clk     clock.Clock

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryCache creates an in-memory cache. A positive cleanupInterval
// starts a janitor that removes expired entries; Close stops it.
func NewMemoryCache(cleanupInterval time.Duration, clk clock.Clock) Cache {
	if clk == nil {
		clk = clock.Real{}
	}
	c := &memoryCache{
		entries: make(map[string]*entry),
		clk:     clk,
	}
	if cleanupInterval > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		ticker := clk.NewTicker(cleanupInterval)
		go c.janitor(ticker)
	}
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || e.expiredAt(c.clk.Now()) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return append([]byte(nil), e.value...), true
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiration = c.clk.Now().Add(ttl)
	}
	c.entries[key] = e
	c.stats.Sets++
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache) Clear(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func (c *memoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

// deleteExpired removes expired entries and returns how many were dropped.
func (c *memoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now()
	count := 0
	for key, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	return count
}

func (c *memoryCache) janitor(ticker clock.Ticker) {
	defer close(c.done)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C():
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) Close() error {
	if c.stop == nil {
		return nil
	}
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
	return nil
}

type noOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noOpCache) Set(context.Context, string, []byte, time.Duration) {}
func (noOpCache) Delete(context.Context, string)                     {}
func (noOpCache) Clear(context.Context)                              {}
func (noOpCache) Stats() Stats                                       { return Stats{} }
func (noOpCache) Close() error                                       { return nil }
