package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// redisOptions accepts either a redis:// URL or a bare host:port.
func redisOptions(uri string) (*redis.Options, error) {
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		return redis.ParseURL(uri)
	}
	return &redis.Options{Addr: uri, DB: 0}, nil
}

// InitRedis connects and pings Redis. An empty uri leaves caching disabled.
func InitRedis(ctx context.Context, uri string) (*redis.Client, error) {
	if uri == "" {
		return nil, nil
	}
	opts, err := redisOptions(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URI")
	}
	c := redis.NewClient(opts)
	if _, err := c.Ping(ctx).Result(); err != nil {
		_ = c.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	RedisClient = c
	return c, nil
}
