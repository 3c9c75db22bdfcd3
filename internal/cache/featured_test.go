package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisFeaturedCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisFeaturedCache(client, ttl), mr
}

func TestGetFeatured_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t, time.Minute)

	_, err := cache.GetFeatured(context.Background(), "top-rated:8")
	assert.ErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestSetThenGetFeatured(t *testing.T) {
	cache, mr := setupTestRedis(t, 2*time.Minute)
	ctx := context.Background()

	id := primitive.NewObjectID()
	page := catalog.Page{
		Items: []models.Product{{ID: id, Name: "Tea", Rating: 4.5, Category: models.StringList{"c1"}, IsActive: true}},
		Page:  1,
		Limit: 8,
		Total: 1,
	}
	require.NoError(t, cache.SetFeatured(ctx, "top-rated:8", page))

	ttl := mr.TTL("featured:top-rated:8")
	assert.GreaterOrEqual(t, ttl, 2*time.Minute)
	assert.Less(t, ttl, 3*time.Minute)

	got, err := cache.GetFeatured(ctx, "top-rated:8")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, id, got.Items[0].ID)
	assert.Equal(t, 4.5, got.Items[0].Rating)
	assert.False(t, got.HasMore)
}

func TestGetFeatured_Expired(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetFeatured(ctx, "newest:4", catalog.Page{Limit: 4}))
	mr.FastForward(3 * time.Minute)

	_, err := cache.GetFeatured(ctx, "newest:4")
	assert.ErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestGetFeatured_CorruptValue(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	require.NoError(t, mr.Set("featured:newest:4", "{not json"))

	_, err := cache.GetFeatured(context.Background(), "newest:4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestGetFeatured_RedisDown(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	mr.Close()

	_, err := cache.GetFeatured(context.Background(), "newest:4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, cache.SetFeatured(ctx, "newest:4", catalog.Page{}))
	require.NoError(t, cache.SetFeatured(ctx, "top-rated:8", catalog.Page{}))
	require.NoError(t, mr.Set("unrelated", "x"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists("featured:newest:4"))
	assert.False(t, mr.Exists("featured:top-rated:8"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	client.Close()

	_, err = Connect("://bad")
	assert.Error(t, err)
}
