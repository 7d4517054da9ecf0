package util

import (
	"context"
	"testing"
	"time"

	"umsshop/catalog-service/internal/app/catalog/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &RedisClient{client: client, ttl: time.Hour}, mr
}

func TestListingKey(t *testing.T) {
	assert.Equal(t, "categories:0:main", ListingKey(0, entity.LevelMain, ""))
	assert.Equal(t, "categories:4:sub1:p:m1", ListingKey(4, entity.LevelSub1, "m1"))
	assert.NotEqual(t, ListingKey(0, entity.LevelSub1, ""), ListingKey(0, entity.LevelSub1, "all"))
}

func TestRedisClient_ListingRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache, mr := newTestRedis(t)
	items := []entity.CategorySummary{{CategoryID: "m1", Name: "Health", Status: entity.StatusActive, ChildCount: 2}}
	key := ListingKey(0, entity.LevelMain, "")

	// Act
	require.NoError(t, cache.SetListing(ctx, key, items))
	got, err := cache.GetListing(ctx, key)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestRedisClient_GetListing_Miss(t *testing.T) {
	cache, _ := newTestRedis(t)

	got, err := cache.GetListing(context.Background(), "categories:0:main")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisClient_Invalidate_RemovesOnlyCategoryKeys(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache, mr := newTestRedis(t)
	for _, key := range []string{"categories:0:main", "categories:0:sub1:p:m1", "categories:0:sub2:p:m1-sub1-a"} {
		require.NoError(t, mr.Set(key, "[]"))
	}
	require.NoError(t, mr.Set("session:42", "x"))

	// Act
	err := cache.Invalidate(ctx)

	// Assert
	require.NoError(t, err)
	assert.False(t, mr.Exists("categories:0:main"))
	assert.False(t, mr.Exists("categories:0:sub1:p:m1"))
	assert.False(t, mr.Exists("categories:0:sub2:p:m1-sub1-a"))
	assert.True(t, mr.Exists("session:42"))
}

func TestRedisClient_Invalidate_BumpsGeneration(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache, _ := newTestRedis(t)
	before, err := cache.Generation(ctx)
	require.NoError(t, err)
	stale := ListingKey(before, entity.LevelMain, "")

	// Act
	require.NoError(t, cache.Invalidate(ctx))
	// запоздалый читатель кладет снимок под ключ старого поколения
	require.NoError(t, cache.SetListing(ctx, stale, []entity.CategorySummary{}))
	after, err := cache.Generation(ctx)
	require.NoError(t, err)
	got, err := cache.GetListing(ctx, ListingKey(after, entity.LevelMain, ""))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
	assert.Nil(t, got)
}
