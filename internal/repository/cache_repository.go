package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

// CacheRepository keeps JSON documents such as run results in Redis. A repository
// without a client behaves as an always-empty cache.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Get decodes the document stored at key into dest. A missing key yields ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("unreadable cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// SetMany writes every entry with the same TTL in one MULTI/EXEC round trip, so
// readers never see only part of the batch.
func (r *CacheRepository) SetMany(ctx context.Context, entries map[string]interface{}, ttl time.Duration) error {
	if r.client == nil || len(entries) == 0 {
		return nil
	}

	payloads := make(map[string][]byte, len(entries))
	for key, value := range entries {
		payload, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal cache value for %s: %w", key, err)
		}
		payloads[key] = payload
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, payload := range payloads {
			pipe.Set(ctx, key, payload, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %d keys: %w", len(payloads), err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
