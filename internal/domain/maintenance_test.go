package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaintenanceJob(t *testing.T) {
	scheduledAt := time.Now()

	j, err := NewMaintenanceJob("veh-1", JobRoutine, scheduledAt)
	require.NoError(t, err)
	assert.Equal(t, MaintenanceScheduled, j.Status)

	_, err = NewMaintenanceJob("veh-1", MaintenanceType("BOGUS"), scheduledAt)
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)
}

func TestMaintenanceJob_Lifecycle_HappyPath(t *testing.T) {
	scheduledAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	j, err := NewMaintenanceJob("veh-1", JobRepair, scheduledAt)
	require.NoError(t, err)

	startedAt := scheduledAt.Add(time.Hour)
	require.NoError(t, j.Start(startedAt))
	assert.Equal(t, MaintenanceInProgress, j.Status)

	completedAt := startedAt.Add(2 * time.Hour)
	require.NoError(t, j.Complete(completedAt, 5000))
	assert.Equal(t, MaintenanceCompleted, j.Status)
	require.NotNil(t, j.OdometerKmAtService)
	assert.EqualValues(t, 5000, *j.OdometerKmAtService)
	assert.True(t, j.ReleasesVehicle())
}

func TestMaintenanceJob_Start_RejectsBeforeScheduled(t *testing.T) {
	scheduledAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	j, err := NewMaintenanceJob("veh-1", JobRepair, scheduledAt)
	require.NoError(t, err)

	err = j.Start(scheduledAt.Add(-time.Hour))
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)
}

func TestMaintenanceJob_Complete_RejectsBeforeStarted(t *testing.T) {
	j := &MaintenanceJob{Status: MaintenanceInProgress}
	startedAt := time.Now()
	j.StartedAt = &startedAt

	err := j.Complete(startedAt.Add(-time.Minute), 1000)
	require.Error(t, err)
}

func TestMaintenanceJob_Cancel(t *testing.T) {
	j := &MaintenanceJob{Status: MaintenanceScheduled}
	require.NoError(t, j.Cancel())
	assert.Equal(t, MaintenanceCancelled, j.Status)
	assert.True(t, j.ReleasesVehicle())

	inProgress := &MaintenanceJob{Status: MaintenanceInProgress}
	assert.Error(t, inProgress.Cancel())
}

func TestMaintenanceJob_TotalCost(t *testing.T) {
	j := &MaintenanceJob{LaborCost: 500, PartsCost: 1200}
	assert.Equal(t, Money(1700), j.TotalCost())
}

func TestMaintenanceJob_ReleasesVehicle(t *testing.T) {
	assert.False(t, (&MaintenanceJob{Status: MaintenanceScheduled}).ReleasesVehicle())
	assert.False(t, (&MaintenanceJob{Status: MaintenanceInProgress}).ReleasesVehicle())
	assert.True(t, (&MaintenanceJob{Status: MaintenanceCompleted}).ReleasesVehicle())
	assert.True(t, (&MaintenanceJob{Status: MaintenanceCancelled}).ReleasesVehicle())
}
