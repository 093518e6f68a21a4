package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MilchZocker/UCC-DreamPacket/internal/models"
	"github.com/MilchZocker/UCC-DreamPacket/internal/redis"
)

const redisSessionPrefix = "dream:session:"

// RedisStore persists session records in redis, for deployments running
// more than one service instance against a shared backend. Records never
// expire; the canvas keeps only the latest write.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(clientKey string) string {
	return redisSessionPrefix + clientKey
}

func (r *RedisStore) Get(ctx context.Context, clientKey string) (models.Session, error) {
	if clientKey == "" {
		return models.DefaultSession(), errors.New("client key required")
	}
	record, err := r.client.Get(ctx, r.key(clientKey))
	if errors.Is(err, redis.ErrCacheMiss) {
		return models.DefaultSession(), nil
	}
	if err != nil {
		return models.DefaultSession(), fmt.Errorf("load session: %w", err)
	}
	return models.DecodeRecord(record), nil
}

func (r *RedisStore) Put(ctx context.Context, clientKey string, s models.Session) error {
	if clientKey == "" {
		return errors.New("client key required")
	}
	if err := r.client.Set(ctx, r.key(clientKey), s.EncodeRecord(), 0); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
