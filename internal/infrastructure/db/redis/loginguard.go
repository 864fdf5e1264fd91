package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginGuard throttles repeated failed logins per username, backed by Redis.
// Key format: loginfail:<username>, incremented on failure and expired after
// the configured window. A maxFails of 0 disables the guard entirely, which
// keeps login behaviour purely stateless.
type LoginGuard struct {
	client   *redis.Client
	maxFails int
	window   time.Duration
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
func NewLoginGuard(client *redis.Client, maxFails int, window time.Duration) *LoginGuard {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginGuard{client: client, maxFails: maxFails, window: window}
}

// Allowed reports whether username may attempt another login.
func (g *LoginGuard) Allowed(ctx context.Context, username string) (bool, error) {
	if g.disabled() {
		return true, nil
	}
	n, err := g.client.Get(ctx, g.key(username)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("login guard check: %w", err)
	}
	return n < g.maxFails, nil
}

// RecordFailure notes one failed attempt; the counter expires after the window.
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) error {
	if g.disabled() {
		return nil
	}
	key := g.key(username)
	pipe := g.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login guard record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	if g.disabled() {
		return nil
	}
	return g.client.Del(ctx, g.key(username)).Err()
}

func (g *LoginGuard) disabled() bool {
	return g.maxFails <= 0 || g.client == nil
}

func (g *LoginGuard) key(username string) string {
	return "loginfail:" + username
}
