package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// RedisStore shares the embassy-content cache across replicas. Failures
// degrade to cache misses; the provider re-fetches from postgres.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

func NewRedisStore(log *logger.Logger) (*RedisStore, error) {
	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.Str("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{
		client: client,
		prefix: envutil.Str("REDIS_CACHE_PREFIX", "visabuddy:embassy:"),
		log:    log.With("service", "RedisStore"),
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis get failed, treating as miss", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		s.log.Warn("redis set failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
