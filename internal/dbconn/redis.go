package dbconn

import (
	"context"

	"github.com/redis/go-redis/v9"

	"fleetledger/internal/config"
	"fleetledger/internal/logging"

	"go.uber.org/zap"
)

// RedisClient is the process-wide cache/broker client.
var RedisClient *redis.Client

// InitRedis connects to Redis. A ping failure is logged, not fatal — cache
// reads fall back to Postgres. Rate limiting never uses Redis; its buckets
// are always in-memory.
func InitRedis() {
	opts, err := redis.ParseURL(config.Envs.RedisURL)
	if err != nil {
		logging.Logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	RedisClient = redis.NewClient(opts)

	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		logging.Logger.Warn("failed to reach Redis at startup", zap.Error(err))
		return
	}
	logging.Logger.Info("connected to Redis")
}
