package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meditravel/models"

	"github.com/go-redis/redis/v8"
)

const (
	wizardPrefix        = "wizard:"
	cryptoRequestPrefix = "cryptoReq:"
)

// RedisWizardStore persists wizard sessions and crypto requests in the
// payments Redis database.
type RedisWizardStore struct {
	client *redis.Client
}

// NewRedisWizardStore creates a WizardStore backed by the given client.
func NewRedisWizardStore(client *redis.Client) *RedisWizardStore {
	return &RedisWizardStore{client: client}
}

func (s *RedisWizardStore) SaveWizard(ctx context.Context, w *models.WizardSession, ttl time.Duration) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	if err := s.client.Set(ctx, wizardPrefix+w.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (s *RedisWizardStore) GetWizard(ctx context.Context, id string) (*models.WizardSession, error) {
	data, err := s.client.Get(ctx, wizardPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wizard session: %w", err)
	}
	var w models.WizardSession
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &w, nil
}

func (s *RedisWizardStore) DeleteWizard(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, wizardPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

func (s *RedisWizardStore) SaveCryptoRequest(ctx context.Context, r *models.CryptoPaymentRequest, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal crypto request: %w", err)
	}
	if err := s.client.Set(ctx, cryptoRequestPrefix+r.WizardID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save crypto request: %w", err)
	}
	return nil
}

func (s *RedisWizardStore) GetCryptoRequest(ctx context.Context, wizardID string) (*models.CryptoPaymentRequest, error) {
	data, err := s.client.Get(ctx, cryptoRequestPrefix+wizardID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crypto request: %w", err)
	}
	var r models.CryptoPaymentRequest
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal crypto request: %w", err)
	}
	return &r, nil
}

func (s *RedisWizardStore) DeleteCryptoRequest(ctx context.Context, wizardID string) error {
	if err := s.client.Del(ctx, cryptoRequestPrefix+wizardID).Err(); err != nil {
		return fmt.Errorf("failed to delete crypto request: %w", err)
	}
	return nil
}

// ExpirePendingRequests scans stored crypto requests and marks as expired any
// still pending past their countdown. Expiry is also enforced on read; this
// sweep keeps the stored state honest for sessions nobody is polling. It
// returns the number of requests it transitioned.
func (s *RedisWizardStore) ExpirePendingRequests(ctx context.Context, now time.Time) (int, error) {
	var (
		cursor  uint64
		expired int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, cryptoRequestPrefix+"*", 100).Result()
		if err != nil {
			return expired, fmt.Errorf("failed to scan crypto requests: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return expired, fmt.Errorf("failed to fetch crypto request %s: %w", key, err)
			}
			var r models.CryptoPaymentRequest
			if err := json.Unmarshal([]byte(data), &r); err != nil {
				return expired, fmt.Errorf("failed to unmarshal crypto request %s: %w", key, err)
			}
			if r.Status != models.CryptoStatusPending || !r.Expired(now) {
				continue
			}

			r.Status = models.CryptoStatusExpired
			updated, err := json.Marshal(&r)
			if err != nil {
				return expired, fmt.Errorf("failed to marshal crypto request %s: %w", key, err)
			}
			if err := s.client.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
				return expired, fmt.Errorf("failed to update crypto request %s: %w", key, err)
			}
			expired++
		}

		cursor = next
		if cursor == 0 {
			return expired, nil
		}
	}
}
