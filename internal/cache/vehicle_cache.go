package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetledger/internal/domain"
	"fleetledger/internal/logging"

	"go.uber.org/zap"
)

const vehicleKeyPrefix = "vehicles:cache:"
const vehicleTTL = 5 * time.Minute

// VehicleCache fronts GetVehicle reads cache-aside. Writes do not
// invalidate it proactively — correctness comes from optimistic locking at
// the store layer; a write that loses its version race returns CONFLICT
// and the caller re-reads, which naturally refreshes this cache.
type VehicleCache struct {
	client *redis.Client
}

func NewVehicleCache(client *redis.Client) *VehicleCache {
	return &VehicleCache{client: client}
}

func (c *VehicleCache) Get(ctx context.Context, id string) (*domain.Vehicle, bool) {
	if c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, vehicleKeyPrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var v domain.Vehicle
	if err := json.Unmarshal([]byte(val), &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set is fire-and-forget: a failure to populate the cache is logged, never
// surfaced to the caller, since Postgres remains the source of truth.
func (c *VehicleCache) Set(ctx context.Context, v *domain.Vehicle) {
	if c.client == nil {
		return
	}
	val, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, vehicleKeyPrefix+v.ID, val, vehicleTTL).Err(); err != nil {
		logging.Logger.Warn("vehicle cache write failed", zap.String("vehicleId", v.ID), zap.Error(err))
	}
}
