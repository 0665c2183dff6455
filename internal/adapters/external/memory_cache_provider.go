package external

import (
	"context"
	"sync"
	"time"

	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

const defaultSweepInterval = time.Minute

// MemoryCacheProvider is a process-local TTL cache. A background janitor
// drops expired entries until Close is called.
type MemoryCacheProvider struct {
	data  map[string]memoryCacheItem
	mutex sync.RWMutex
	stats hitCounter
	now   func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return NewMemoryCacheProviderWithSweep(defaultSweepInterval)
}

// NewMemoryCacheProviderWithSweep sets the janitor period; a non-positive
// interval disables the janitor.
func NewMemoryCacheProviderWithSweep(interval time.Duration) *MemoryCacheProvider {
	c := &MemoryCacheProvider{
		data: make(map[string]memoryCacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if interval > 0 {
		go c.janitor(interval)
	} else {
		close(c.done)
	}
	return c
}

func (c *MemoryCacheProvider) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.DeleteExpired()
		}
	}
}

// DeleteExpired removes every expired entry and reports how many were dropped
func (c *MemoryCacheProvider) DeleteExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor. The cache stays usable afterwards.
func (c *MemoryCacheProvider) Close() error {
	c.closeOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}

func (c *MemoryCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		c.stats.miss()
		return nil, errors.NewNotFoundError("cache miss")
	}
	if c.now().After(item.expiresAt) {
		c.mutex.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if current, ok := c.data[key]; ok && c.now().After(current.expiresAt) {
			delete(c.data, key)
		}
		c.mutex.Unlock()
		c.stats.miss()
		return nil, errors.NewNotFoundError("cache miss")
	}

	c.stats.hit()
	return item.data, nil
}

func (c *MemoryCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = memoryCacheItem{
		data:      value,
		expiresAt: c.now().Add(ttl),
	}

	return nil
}

func (c *MemoryCacheProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

func (c *MemoryCacheProvider) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]memoryCacheItem)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCacheProvider) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCacheProvider) GetStats() ports.CacheStats {
	return c.stats.snapshot()
}

// hitCounter tracks hit ratio for the CacheMetrics port
type hitCounter struct {
	hits   int64
	misses int64
	mutex  sync.RWMutex
}

func (h *hitCounter) hit() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.hits++
}

func (h *hitCounter) miss() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.misses++
}

func (h *hitCounter) snapshot() ports.CacheStats {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	total := h.hits + h.misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(h.hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        h.hits,
		Misses:      h.misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}
