// Package guard limits failed password attempts per user.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/larriantoniy/pethome_bot/internal/ports"
)

const keyPrefix = "pethome:login:fail:"

var (
	_ ports.LoginGuard = (*Redis)(nil)
	_ ports.LoginGuard = Noop{}
)

// Redis counts failures in a key that expires window after the last one.
type Redis struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedis connects using a redis:// URL and pings the server.
func NewRedis(ctx context.Context, url string, limit int, window time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client, limit: int64(limit), window: window}, nil
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

func (g *Redis) Allowed(ctx context.Context, userID int64) (bool, error) {
	n, err := g.client.Get(ctx, key(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return n < g.limit, nil
}

func (g *Redis) Failed(ctx context.Context, userID int64) error {
	pipe := g.client.Pipeline()
	pipe.Incr(ctx, key(userID))
	pipe.Expire(ctx, key(userID), g.window)
	_, err := pipe.Exec(ctx)
	return err
}

func (g *Redis) Succeeded(ctx context.Context, userID int64) error {
	return g.client.Del(ctx, key(userID)).Err()
}

func (g *Redis) Close() error {
	return g.client.Close()
}

// Noop never blocks anybody; used when Redis is not configured.
type Noop struct{}

func (Noop) Allowed(context.Context, int64) (bool, error) { return true, nil }
func (Noop) Failed(context.Context, int64) error          { return nil }
func (Noop) Succeeded(context.Context, int64) error       { return nil }
