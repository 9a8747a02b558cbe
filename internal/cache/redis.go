package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a shared query cache backed by a Redis instance, for
// deployments that run several serve replicas against the same
// registries. Failures degrade to cache misses; the cache is never on
// the correctness path.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis-backed cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "propply:query:"}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]map[string]any, bool) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Debug("cache: redis get failed", zap.Error(err))
		}
		return nil, false
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		zap.L().Debug("cache: corrupt redis entry", zap.Error(err))
		return nil, false
	}
	return rows, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, rows []map[string]any) {
	raw, err := json.Marshal(rows)
	if err != nil {
		zap.L().Debug("cache: marshal rows", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		zap.L().Debug("cache: redis set failed", zap.Error(err))
	}
}
