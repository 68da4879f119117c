package geo

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores resolved addresses keyed by normalized location text.
type Cache interface {
	Get(ctx context.Context, key string) (Address, bool)
	Set(ctx context.Context, key string, addr Address)
}

// CacheKey normalizes a location string for cache lookups.
func CacheKey(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

type cacheEntry struct {
	expiresAt time.Time
	addr      Address
}

// MemoryCache is an in-process cache bounded by TTL and item count.
type MemoryCache struct {
	TTL      time.Duration
	MaxItems int

	mu    sync.RWMutex
	items map[string]cacheEntry
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxItems int) *MemoryCache {
	return &MemoryCache{TTL: ttl, MaxItems: maxItems, items: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || (c.TTL > 0 && !c.clock().Before(e.expiresAt)) {
		return Address{}, false
	}
	return e.addr, true
}

func (c *MemoryCache) Set(_ context.Context, key string, addr Address) {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]cacheEntry)
	}
	c.items[key] = cacheEntry{expiresAt: now.Add(c.TTL), addr: addr}

	if c.MaxItems <= 0 || len(c.items) <= c.MaxItems {
		return
	}
	// expired entries go first, then arbitrary ones
	for k, e := range c.items {
		if c.TTL > 0 && !now.Before(e.expiresAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) <= c.MaxItems {
			break
		}
		if k != key {
			delete(c.items, k)
		}
	}
}

func (c *MemoryCache) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// RedisCache shares resolved addresses across server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (r *RedisCache) key(key string) string {
	return "geo:address:" + key
}

// Get treats any Redis failure as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (Address, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return Address{}, false
	}
	if err != nil {
		r.log.Warn("address cache read failed", zap.String("key", key), zap.Error(err))
		return Address{}, false
	}
	var addr Address
	if err := json.Unmarshal(data, &addr); err != nil {
		r.log.Warn("address cache entry corrupt", zap.String("key", key), zap.Error(err))
		return Address{}, false
	}
	return addr, true
}

func (r *RedisCache) Set(ctx context.Context, key string, addr Address) {
	data, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		r.log.Warn("address cache write failed", zap.String("key", key), zap.Error(err))
	}
}
