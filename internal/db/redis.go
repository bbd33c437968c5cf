package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/edumanage/educenter/internal/config"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// NewRedisClient connects to the configured Redis server and pings it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	lg := logger.Component("redis")
	lg.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("Connected to Redis")
	return rdb, nil
}
