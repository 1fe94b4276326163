// Package redisclient holds the Redis-backed view telemetry: trending
// product scores and per-shopper recently-viewed lists. Everything here
// is best-effort; callers log failures and move on.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	trendingKey      = "trending:products"
	recentKeyPrefix  = "recent:"
	recentListLength = 20
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// RecordProductView bumps the product's trending score and remembers it
// on the actor's recently-viewed list.
func (c *Client) RecordProductView(ctx context.Context, productID, actor string) error {
	pipe := c.rdb.Pipeline()
	pipe.ZIncrBy(ctx, trendingKey, 1, productID)
	if actor != "" {
		key := recentKeyPrefix + actor
		pipe.LRem(ctx, key, 0, productID)
		pipe.LPush(ctx, key, productID)
		pipe.LTrim(ctx, key, 0, recentListLength-1)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// TopProducts returns up to limit product ids ordered by view score.
func (c *Client) TopProducts(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	return c.rdb.ZRevRange(ctx, trendingKey, 0, int64(limit-1)).Result()
}

// RecentlyViewed returns the actor's most recent product ids, newest first.
func (c *Client) RecentlyViewed(ctx context.Context, actor string) ([]string, error) {
	return c.rdb.LRange(ctx, recentKeyPrefix+actor, 0, recentListLength-1).Result()
}
