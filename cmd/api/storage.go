package main

import (
	"context"
	"fmt"

	"spendwiser/config"
	"spendwiser/internal/adapter/storage/memory"
	pgStorage "spendwiser/internal/adapter/storage/postgres"
	redisStorage "spendwiser/internal/adapter/storage/redis"
	sqliteStorage "spendwiser/internal/adapter/storage/sqlite"
	"spendwiser/internal/core/ports"

	"github.com/rs/zerolog"
)

// storage bundles the slot backend with the health checks and rate limit
// store that go with it.
type storage struct {
	slots      ports.SlotStore
	rateLimits ports.RateLimitStore
	health     []ports.HealthChecker
	closers    []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage connects the configured driver. Drivers other than redis
// rate limit in process.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	st := &storage{rateLimits: memory.NewRateLimitStore()}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		slots := memory.NewSlotStore()
		st.slots = slots
		st.health = append(st.health, slots)
		log.Warn().Msg("memory storage selected, data is lost on restart")

	case config.DriverSQLite:
		slots, err := sqliteStorage.Open(ctx, cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		st.slots = slots
		st.health = append(st.health, slots)
		st.closers = append(st.closers, func() { _ = slots.Close() })

	case config.DriverRedis:
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		st.slots = redisStorage.NewSlotStore(rdb, cfg.Redis.KeyPrefix)
		st.rateLimits = redisStorage.NewRateLimitStore(rdb, cfg.Redis.KeyPrefix)
		st.health = append(st.health, redisStorage.NewHealthCheck(rdb))
		st.closers = append(st.closers, func() { _ = rdb.Close() })

	case config.DriverPostgres:
		if err := pgStorage.RunMigrations(cfg.Database.DSN()); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		st.slots = pgStorage.NewSlotStore(pool)
		st.health = append(st.health, pgStorage.NewHealthCheck(pool))
		st.closers = append(st.closers, pool.Close)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return st, nil
}
