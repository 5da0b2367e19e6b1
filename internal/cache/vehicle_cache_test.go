package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetledger/internal/domain"
)

func TestVehicleCache_NilClientIsNoopSafe(t *testing.T) {
	c := NewVehicleCache(nil)

	v, ok := c.Get(context.Background(), "veh-1")
	assert.False(t, ok)
	assert.Nil(t, v)

	c.Set(context.Background(), &domain.Vehicle{ID: "veh-1"})
}
