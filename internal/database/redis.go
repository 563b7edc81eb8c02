package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// blockingClients is the number of connections parked in BLPOP by the
// persistence workers.
const blockingClients = 2

// NewRedisClient creates and validates the client used for login sessions,
// interview locks, the exam cache, the persistence queues and the monitor
// Pub/Sub. Workers block on BLPOP, so the read timeout must exceed their
// poll interval.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	log = log.With().Str("component", "redis").Logger()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opt.ClientName = applicationName
	opt.ReadTimeout = 10 * time.Second
	opt.MinIdleConns = blockingClients

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Int("min_idle_conns", opt.MinIdleConns).
		Msg("Redis connected")

	return rdb, nil
}
