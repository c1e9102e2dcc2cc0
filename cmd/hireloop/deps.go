package main

import (
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/hireloop/hireloop/internal/adapters/memory"
	"github.com/hireloop/hireloop/internal/adapters/postgres"
	redisadapter "github.com/hireloop/hireloop/internal/adapters/redis"
	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/workflow"
)

// openStore builds the checkpoint store selected by the config. The
// returned closer releases the backing connections.
func openStore(cfg *config.Config) (workflow.CheckpointStore, func(), error) {
	switch cfg.Store {
	case "redis":
		client := newRedisClient(cfg)
		store := redisadapter.NewStore(client)
		return store, func() { _ = client.Close() }, nil
	case "postgres":
		store, err := postgres.NewStore(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "memory":
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// openLocker builds the Redis-backed distributed locker. Locking is
// optional: no configured Redis address means unlocked execution.
func openLocker(cfg *config.Config) (workflow.DistributedLocker, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}
	client := newRedisClient(cfg)
	return redisadapter.NewLocker(client, "hireloop:"), func() { _ = client.Close() }
}

func newRedisClient(cfg *config.Config) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
