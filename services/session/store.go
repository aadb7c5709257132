package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meditravel/models"

	"github.com/go-redis/redis/v8"
)

const identitySnapshotPrefix = "identity:"

// RedisIdentityStore caches identity snapshots in Redis.
type RedisIdentityStore struct {
	client *redis.Client
}

// NewRedisIdentityStore creates an IdentityStore backed by the given client.
func NewRedisIdentityStore(client *redis.Client) *RedisIdentityStore {
	return &RedisIdentityStore{client: client}
}

func (s *RedisIdentityStore) Save(ctx context.Context, identity models.Identity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity snapshot: %w", err)
	}
	if err := s.client.Set(ctx, identitySnapshotPrefix+identity.UserID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save identity snapshot: %w", err)
	}
	return nil
}

func (s *RedisIdentityStore) Get(ctx context.Context, userID string) (*models.Identity, error) {
	data, err := s.client.Get(ctx, identitySnapshotPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity snapshot: %w", err)
	}
	var identity models.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity snapshot: %w", err)
	}
	return &identity, nil
}

func (s *RedisIdentityStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, identitySnapshotPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete identity snapshot: %w", err)
	}
	return nil
}
