package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrackingCache is an in-memory cache that stores JSON like the Redis cache
// does and counts its calls.
type TrackingCache struct {
	mu       sync.Mutex
	getCalls int
	setCalls int
	hits     int
	data     map[string]CacheEntry
}

type CacheEntry struct {
	Value  []byte
	Expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]CacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	entry, exists := c.data[key]
	if !exists || !time.Now().Before(entry.Expiry) {
		return redis.Nil
	}
	c.hits++
	return json.Unmarshal(entry.Value, dest)
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	c.data[key] = CacheEntry{
		Value:  payload,
		Expiry: time.Now().Add(exp),
	}
	return nil
}

func (c *TrackingCache) Close() error {
	return nil
}

// Counts returns the number of Get calls, Set calls and hits so far.
func (c *TrackingCache) Counts() (gets, sets, hits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls, c.hits
}
