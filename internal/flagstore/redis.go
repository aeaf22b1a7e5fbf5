package flagstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a flag store shared by a fleet of kiosks at one booth, so a
// participant blocked on one device stays blocked on the others.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed flag store. A zero ttl keeps flags
// indefinitely.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

var _ Store = (*Redis)(nil)

func (r *Redis) Get(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val == "true", nil
}

func (r *Redis) Set(ctx context.Context, key string) error {
	return r.client.Set(ctx, r.redisKey(key), "true", r.ttl).Err()
}

func (r *Redis) redisKey(key string) string {
	return fmt.Sprintf("prizewheel:flag:%s", key)
}
