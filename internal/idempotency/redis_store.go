package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:"

// RedisStore keeps claims in Redis so several bot replicas share them.
type RedisStore struct {
	client redis.UniversalClient
	log    *slog.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
	}
}

func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, recordKey(key), time.Now().Unix(), ttl).Result()
	if err != nil {
		s.log.Error("failed to claim idempotency key", slog.String("key", key), slog.Any("error", err))
		return false, err
	}

	return acquired, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, recordKey(key)).Err(); err != nil {
		s.log.Error("failed to release idempotency key", slog.String("key", key), slog.Any("error", err))
		return err
	}

	return nil
}

// HealthCheck pings Redis. It backs the readiness probe.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func recordKey(key string) string {
	return fmt.Sprintf("%s%s", keyPrefix, key)
}
