package database

import (
	"context"
	"time"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool and cache.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckHealth pings the backing store with a short timeout.
func CheckHealth(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return p.Ping(ctx)
}
