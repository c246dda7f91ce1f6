package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), FinnhubRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, FinnhubRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), RedditRateLimit))
}

func TestCache_LocalFallback(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(Disabled(), "test")

	type payload struct {
		Symbol string  `json:"symbol"`
		Score  float64 `json:"score"`
	}

	var got payload
	found, err := cache.Get(ctx, "AAPL", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "AAPL", payload{Symbol: "AAPL", Score: 61.5}, time.Minute))

	found, err = cache.Get(ctx, "AAPL", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Symbol: "AAPL", Score: 61.5}, got)

	require.NoError(t, cache.Delete(ctx, "AAPL"))
	found, _ = cache.Get(ctx, "AAPL", &got)
	assert.False(t, found)
}

func TestCache_LocalExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(Disabled(), "test")

	require.NoError(t, cache.Set(ctx, "k", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	found, err := cache.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(Disabled(), "test")

	require.NoError(t, cache.Set(ctx, "short", 1, time.Millisecond))
	require.NoError(t, cache.Set(ctx, "long", 2, time.Hour))
	require.NoError(t, cache.Set(ctx, "forever", 3, 0))
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, cache.PurgeExpired())
	assert.Equal(t, 0, cache.PurgeExpired())

	var v int
	found, err := cache.Get(ctx, "long", &v)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(Disabled(), "test")

	calls := 0
	load := func() (interface{}, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	var first, second []string
	require.NoError(t, cache.GetOrSet(ctx, "list", &first, time.Minute, load))
	require.NoError(t, cache.GetOrSet(ctx, "list", &second, time.Minute, load))

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{"StockRecordKey", func() string { return StockRecordKey("aapl") }, "stock:record:AAPL"},
		{"SentimentKey", func() string { return SentimentKey("tsla", 7) }, "sentiment:TSLA:7d"},
		{"NewsKey", func() string { return NewsKey("General") }, "news:general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fn())
		})
	}
}
