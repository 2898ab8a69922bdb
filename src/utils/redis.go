package utils

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a JSON cache over Redis. A nil Cache, or one without a client,
// misses on every read and drops every write.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewCache(client *redis.Client, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{client: client, log: log}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// HashParams returns a stable key fragment for a parameter set.
func HashParams(params interface{}) string {
	b, _ := json.Marshal(params)
	h := sha1.New()
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Get decodes the cached value into dest and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DelPattern removes every key matching pattern.
func (c *Cache) DelPattern(ctx context.Context, pattern string) {
	if !c.enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
