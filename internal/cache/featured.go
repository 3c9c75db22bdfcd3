package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/catalog"
)

const maxJitter = time.Minute

// RedisFeaturedCache stores featured lists as JSON with a jittered TTL so
// lists computed together do not expire together.
type RedisFeaturedCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisFeaturedCache(client *redis.Client, baseTTL time.Duration) *RedisFeaturedCache {
	if baseTTL <= 0 {
		baseTTL = time.Minute
	}
	return &RedisFeaturedCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisFeaturedCache) GetFeatured(ctx context.Context, key string) (catalog.Page, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return catalog.Page{}, catalog.ErrCacheMiss
	}
	if err != nil {
		return catalog.Page{}, fmt.Errorf("redis get failed: %w", err)
	}

	var page catalog.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return catalog.Page{}, fmt.Errorf("unmarshal featured list failed: %w", err)
	}
	return page, nil
}

func (r *RedisFeaturedCache) SetFeatured(ctx context.Context, key string, page catalog.Page) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal featured list failed: %w", err)
	}

	ttl := r.baseTTL + time.Duration(rand.Int63n(int64(maxJitter)))
	if err := r.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached featured list.
func (r *RedisFeaturedCache) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, cacheKey("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "featured:" + key
}
