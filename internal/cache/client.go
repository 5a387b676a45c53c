// Package cache owns the shared Redis connection.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client so it can be health-checked and closed
// alongside the database pool.
type Client struct {
	rdb *redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Wrap adopts an existing go-redis client.
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Redis exposes the underlying client for adapters.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
