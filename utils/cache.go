package utils

import (
	"context"
	"log"
	"time"

	"meditravel/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (match results, translations).
	CacheClient *redis.Client
	// SessionCacheClient is the dedicated client for identity/session state.
	SessionCacheClient *redis.Client
	// PaymentCacheClient is the dedicated client for payment wizard state.
	PaymentCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes all Redis clients.
func InitRedis() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB)
	PaymentCacheClient = newRedisClient(config.AppConfig.RedisPaymentDB)
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB)
	}
	return CacheClient
}

// GetSessionCacheClient returns the Redis client for identity/session caching.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB)
	}
	return SessionCacheClient
}

// GetPaymentCacheClient returns the Redis client for payment wizard state.
func GetPaymentCacheClient() *redis.Client {
	if PaymentCacheClient == nil {
		PaymentCacheClient = newRedisClient(config.AppConfig.RedisPaymentDB)
	}
	return PaymentCacheClient
}
