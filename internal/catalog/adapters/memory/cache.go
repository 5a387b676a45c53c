package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
)

// Cache holds the catalog in process for ttl. It is used when no Redis is
// configured.
type Cache struct {
	mu        sync.RWMutex
	offerings []domain.Offering
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

func (c *Cache) Get(_ context.Context) ([]domain.Offering, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.offerings == nil || !c.now().Before(c.expiresAt) {
		return nil, ports.ErrCacheMiss
	}
	return cloneAll(c.offerings), nil
}

func (c *Cache) Set(_ context.Context, offerings []domain.Offering) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.offerings = cloneAll(offerings)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *Cache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.offerings = nil
	return nil
}

func cloneAll(offerings []domain.Offering) []domain.Offering {
	out := make([]domain.Offering, len(offerings))
	for i, o := range offerings {
		out[i] = o.Clone()
	}
	return out
}
