package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:offerings"

// Cache stores the whole catalog as one JSON document. The TTL is jittered
// so replicas do not refetch in lockstep.
type Cache struct {
	client  *redis.Client
	baseTTL time.Duration
	jitter  func() time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		baseTTL: ttl,
		jitter: func() time.Duration {
			return time.Duration(rand.IntN(30)) * time.Second
		},
	}
}

func (c *Cache) Get(ctx context.Context) ([]domain.Offering, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var offerings []domain.Offering
	if err := json.Unmarshal(data, &offerings); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return offerings, nil
}

func (c *Cache) Set(ctx context.Context, offerings []domain.Offering) error {
	payload, err := json.Marshal(offerings)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}

	if err := c.client.Set(ctx, catalogKey, payload, c.baseTTL+c.jitter()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
