package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values under "<prefix>:cache:<key>".
// With Redis disabled it falls back to a process-local TTL map, so
// repeated analyses of one ticker stay cheap in single-binary mode.
// ⭐ SSOT: cache helpers live here only
type Cache struct {
	client *Client
	prefix string
	local  *memoryStore
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		local:  newMemoryStore(),
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get loads a cached value into dest. Missing keys return (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data []byte
	if c.client.Enabled() {
		b, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("cache get %s: %w", key, err)
		}
		data = b
	} else {
		b, ok := c.local.get(c.fullKey(key))
		if !ok {
			return false, nil
		}
		data = b
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores a value with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if !c.client.Enabled() {
		c.local.set(c.fullKey(key), data, ttl)
		return nil
	}
	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		c.local.delete(c.fullKey(key))
		return nil
	}
	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it.
// A failing cache write does not fail the call.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	_ = c.Set(ctx, key, json.RawMessage(data), ttl)

	return json.Unmarshal(data, dest)
}

// PurgeExpired drops expired entries from the in-process fallback store.
// Redis expires its own keys, so this is a no-op count there.
func (c *Cache) PurgeExpired() int {
	return c.local.purge(time.Now())
}

type memoryEntry struct {
	data []byte
	exp  time.Time
}

type memoryStore struct {
	mu sync.RWMutex
	m  map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{m: make(map[string]memoryEntry)}
}

func (s *memoryStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.delete(key)
		return nil, false
	}
	return e.data, true
}

func (s *memoryStore) set(key string, data []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = memoryEntry{data: data, exp: exp}
	s.mu.Unlock()
}

func (s *memoryStore) purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(s.m, key)
			removed++
		}
	}
	return removed
}

func (s *memoryStore) delete(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Predefined TTLs
const (
	TTLQuote     = 1 * time.Minute
	TTLRecord    = 10 * time.Minute // collected stock record
	TTLSentiment = 30 * time.Minute
	TTLNews      = 15 * time.Minute
)

// Cache key generators. Symbols are upper-cased so "aapl" and "AAPL" share entries.

func StockRecordKey(symbol string) string {
	return fmt.Sprintf("stock:record:%s", strings.ToUpper(symbol))
}

func SentimentKey(symbol string, lookbackDays int) string {
	return fmt.Sprintf("sentiment:%s:%dd", strings.ToUpper(symbol), lookbackDays)
}

func NewsKey(category string) string {
	return fmt.Sprintf("news:%s", strings.ToLower(category))
}
