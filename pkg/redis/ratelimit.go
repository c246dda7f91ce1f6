package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims the window, counts, and records the request atomically.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, now)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// RateLimiter implements a sliding-window limit shared by every process
// that points at the same Redis.
// ⭐ SSOT: upstream quotas are declared here only
type RateLimiter struct {
	client *Client
	prefix string
	poll   time.Duration
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string // upstream identifier, e.g. "finnhub"
	Limit  int
	Window time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		poll:   100 * time.Millisecond,
	}
}

// Allow checks whether one more request fits the window.
// Returns (allowed, remaining, error). Disabled Redis allows everything.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()

	result, err := slidingWindow.Run(ctx, r.client.Redis(), []string{key},
		now,
		now-cfg.Window.Milliseconds(),
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	return result[0] == 1, int(result[1]), nil
}

// Wait blocks until a request is allowed or ctx is done
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// Published free-tier quotas of the upstreams
var (
	FinnhubRateLimit = RateLimitConfig{
		Key:    "finnhub",
		Limit:  60,
		Window: time.Minute,
	}

	RedditRateLimit = RateLimitConfig{
		Key:    "reddit",
		Limit:  60,
		Window: time.Minute,
	}

	StockTwitsRateLimit = RateLimitConfig{
		Key:    "stocktwits",
		Limit:  200,
		Window: time.Hour,
	}

	// Yahoo publishes no quota; stay conservative
	YahooRateLimit = RateLimitConfig{
		Key:    "yahoo",
		Limit:  5,
		Window: time.Second,
	}
)
