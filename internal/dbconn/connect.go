package dbconn

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/config"
	"fleetledger/internal/logging"

	"go.uber.org/zap"
)

// Pool is the process-wide Postgres connection pool.
var Pool *pgxpool.Pool

// Connect opens the pool against config.Envs.DatabaseURL, sizing it from
// DB_POOL_SIZE, and fails fast if Postgres is unreachable at startup.
func Connect() {
	cfg, err := pgxpool.ParseConfig(config.Envs.DatabaseURL)
	if err != nil {
		logging.Logger.Fatal("invalid DATABASE_URL", zap.Error(err))
	}
	if config.Envs.DBPoolSize > 0 {
		cfg.MaxConns = int32(config.Envs.DBPoolSize)
	}
	cfg.MaxConnLifetime = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	Pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logging.Logger.Fatal("failed to create Postgres pool", zap.Error(err))
	}
	if err := Pool.Ping(ctx); err != nil {
		logging.Logger.Fatal("failed to reach Postgres", zap.Error(err))
	}
	logging.Logger.Info("connected to Postgres")
}

// Close releases the pool. Safe to call even if Connect was never called.
func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
