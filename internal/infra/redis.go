package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the shared client used by the worker queues, the login
// rate limiter and the padrón cache. The backend runs on a single site
// server next to the balanza, so the pool stays small.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	rdb := redis.NewClient(opts)

	// Fail at startup, not on the first enqueue
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
