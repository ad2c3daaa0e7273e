package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogKeyPrefix = "catalog:"

// CatalogCache is a read-through cache for public catalog listings
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// ConnectRedis parses url, connects and pings
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Connected to Redis")
	return rdb, nil
}

// RedisCatalogCache stores JSON-encoded listings under catalog:* keys
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, catalogKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// a corrupt entry is treated as a miss and dropped
		c.rdb.Del(ctx, catalogKeyPrefix+key)
		return false, nil
	}
	return true, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.rdb.Set(ctx, catalogKeyPrefix+key, data, c.ttl).Err()
}

// Invalidate drops every catalog key
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, catalogKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// NoopCatalogCache always misses
type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCatalogCache) Set(context.Context, string, interface{}) error         { return nil }
func (NoopCatalogCache) Invalidate(context.Context) error                       { return nil }
