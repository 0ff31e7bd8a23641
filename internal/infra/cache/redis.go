package cache

import (
	"context"
	"time"

	"booth-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const presignKeyPrefix = "booth:presign:"

// RedisURLCache shares presigned URLs across instances.
type RedisURLCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisURLCache(client *redis.Client) *RedisURLCache {
	return &RedisURLCache{client: client, now: time.Now}
}

func (r *RedisURLCache) Get(ctx context.Context, key string) (string, bool) {
	url, err := r.client.Get(ctx, presignKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.WithComponent("cache").Warn("presign cache read failed", "error", err)
		}
		return "", false
	}
	return url, true
}

func (r *RedisURLCache) Set(ctx context.Context, key string, url string, expiry time.Time) {
	ttl := expiry.Sub(r.now())
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, presignKeyPrefix+key, url, ttl).Err(); err != nil {
		logger.WithComponent("cache").Warn("presign cache write failed", "error", err)
	}
}

func (r *RedisURLCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = presignKeyPrefix + key
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		logger.WithComponent("cache").Warn("presign cache delete failed", "error", err)
	}
}
