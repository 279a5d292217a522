package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/storefront_backend/logging"
)

// ConnectRedis returns a connected client, or nil when Redis is unreachable.
// Callers fall back to in-process stores when it is nil.
func ConnectRedis(ctx context.Context, cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", cfg.Addr).
			Msg("redis connection failed; token blacklist and catalogue cache run in-process")
		_ = client.Close()
		return nil
	}

	logging.Info().Str("addr", cfg.Addr).Msg("connected to Redis")
	return client
}
