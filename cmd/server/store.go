package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/pos-journal/internal/adapter/storage"
	"github.com/rl1809/pos-journal/internal/config"
	"github.com/rl1809/pos-journal/internal/logger"
	"github.com/rl1809/pos-journal/internal/port"
)

type closeFunc func() error

func noopClose() error { return nil }

// openStore connects the configured backend. The returned close func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (port.StateRepository, closeFunc, error) {
	ctx = log.WithField(ctx, "backend", cfg.Store.Backend)

	switch cfg.Store.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info(ctx, "connected to redis")
		return storage.NewRedisAdapter(rdb, cfg.Store.Key), rdb.Close, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}

		adapter := storage.NewMySQLAdapter(db, cfg.Store.Key)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info(ctx, "connected to mysql")
		return adapter, db.Close, nil

	case config.BackendSQLite:
		adapter, err := storage.OpenSQLite(cfg.SQLite.Path, cfg.Store.Key)
		if err != nil {
			return nil, nil, err
		}
		log.Info(log.WithField(ctx, "path", cfg.SQLite.Path), "opened sqlite journal")
		return adapter, adapter.Close, nil

	case config.BackendMemory:
		log.Warn(ctx, "memory backend selected, the journal will not survive a restart")
		return storage.NewMemoryAdapter(), noopClose, nil
	}

	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}
