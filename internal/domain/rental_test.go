package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRental_ComputesCeilingDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		wantDays int64
	}{
		{"exactly one day", start.Add(24 * time.Hour), 1},
		{"half a day rounds up", start.Add(12 * time.Hour), 1},
		{"one day plus a minute rounds up to two", start.Add(24*time.Hour + time.Minute), 2},
		{"three full days", start.Add(72 * time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRental("veh-1", "cust-1", start, tt.end, Money(1000))
			require.NoError(t, err)
			assert.Equal(t, Money(1000)*Money(tt.wantDays), r.TotalDue)
			assert.Equal(t, RentalReserved, r.Status)
		})
	}
}

func TestNewRental_RejectsNonPositiveWindow(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := NewRental("veh-1", "cust-1", start, start, Money(1000))
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, derr.Code)

	_, err = NewRental("veh-1", "cust-1", start, start.Add(-time.Hour), Money(1000))
	require.Error(t, err)
}

func TestRental_Lifecycle_HappyPath(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	r, err := NewRental("veh-1", "cust-1", start, end, Money(1000))
	require.NoError(t, err)

	require.NoError(t, r.Activate(1000))
	assert.Equal(t, RentalActive, r.Status)
	require.NotNil(t, r.StartOdometerKm)
	assert.EqualValues(t, 1000, *r.StartOdometerKm)

	completedAt := end.Add(time.Hour)
	require.NoError(t, r.Complete(1200, completedAt))
	assert.Equal(t, RentalCompleted, r.Status)
	require.NotNil(t, r.EndOdometerKm)
	assert.EqualValues(t, 1200, *r.EndOdometerKm)
	require.NotNil(t, r.ActualReturnAt)
	assert.True(t, r.ActualReturnAt.Equal(completedAt))
	assert.False(t, r.IsOpen())
}

func TestRental_Activate_WrongState(t *testing.T) {
	r := &Rental{Status: RentalActive}
	err := r.Activate(1000)
	require.Error(t, err)
	derr, _ := AsDomainError(err)
	assert.Equal(t, CodeInvalidState, derr.Code)
}

func TestRental_Complete_RejectsMileageBelowStart(t *testing.T) {
	start := int64(1000)
	r := &Rental{Status: RentalActive, StartOdometerKm: &start}

	err := r.Complete(900, time.Now())
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidMileage, derr.Code)
}

func TestRental_Complete_WrongState(t *testing.T) {
	r := &Rental{Status: RentalReserved}
	err := r.Complete(1000, time.Now())
	require.Error(t, err)
}

func TestRental_Cancel(t *testing.T) {
	for _, from := range []RentalStatus{RentalReserved, RentalActive} {
		r := &Rental{Status: from}
		require.NoError(t, r.Cancel())
		assert.Equal(t, RentalCancelled, r.Status)
		assert.False(t, r.IsOpen())
	}

	completed := &Rental{Status: RentalCompleted}
	assert.Error(t, completed.Cancel())
}

func TestRental_IsOpen(t *testing.T) {
	assert.True(t, (&Rental{Status: RentalReserved}).IsOpen())
	assert.True(t, (&Rental{Status: RentalActive}).IsOpen())
	assert.False(t, (&Rental{Status: RentalCompleted}).IsOpen())
	assert.False(t, (&Rental{Status: RentalCancelled}).IsOpen())
}
