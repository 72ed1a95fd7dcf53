package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/decision-engine/internal/domain"
)

const defaultCleanupInterval = 5 * time.Minute

type item struct {
	ev        domain.Evaluation
	expiresAt time.Time
}

// Cache - in-memory кеш результатов скоринга с TTL
type Cache struct {
	mu       sync.RWMutex
	items    map[string]item
	interval time.Duration
	stopChan chan struct{}
	stopped  bool
}

func New() *Cache {
	return NewWithOptions(context.Background(), defaultCleanupInterval)
}

// NewWithOptions binds the cleanup goroutine to ctx and overrides the
// cleanup interval (non-positive falls back to the default).
func NewWithOptions(ctx context.Context, cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	c := &Cache{
		items:    make(map[string]item),
		interval: cleanupInterval,
		stopChan: make(chan struct{}),
	}
	go c.cleanup(ctx)
	return c
}

func (c *Cache) Get(key string) (domain.Evaluation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		return domain.Evaluation{}, false
	}
	return it.ev, true
}

func (c *Cache) Set(key string, ev domain.Evaluation, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item{ev: ev, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
}

func (c *Cache) cleanup(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
