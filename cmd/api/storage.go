package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

type closeFunc func() error

func noopClose() error { return nil }

// openStore builds the state store selected by STOREFRONT_STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kvstore.Store, closeFunc, error) {
	ctx = logg.WithField(ctx, "storage_driver", cfg.Storage.NormalizedDriver())

	switch cfg.Storage.NormalizedDriver() {
	case config.StorageDriverMemory:
		logg.Warn(ctx, "using in-memory state store; shopper data is lost on restart")
		return kvstore.NewMemory(), noopClose, nil

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return kvstore.NewRedis(client, cfg.Redis.StateTTL), client.Close, nil

	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return kvstore.NewSQL(client.DB()), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
