package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle_Success(t *testing.T) {
	v, err := NewVehicle("1HGCM82633A123456", "ABC-123", "Toyota", "Vios", 2022, Money(1500))

	require.NoError(t, err)
	assert.Equal(t, VehicleAvailable, v.Status)
	assert.Equal(t, Currency, v.Currency)
	assert.Equal(t, Money(1500), v.DailyRate)
}

func TestNewVehicle_Validation(t *testing.T) {
	tests := []struct {
		name      string
		vin       string
		plate     string
		year      int
		dailyRate Money
		wantField string
	}{
		{"short vin", "TOO-SHORT", "ABC-123", 2022, 1500, "vin"},
		{"missing plate", "1HGCM82633A123456", "", 2022, 1500, "plate"},
		{"year too old", "1HGCM82633A123456", "ABC-123", 1899, 1500, "year"},
		{"year too new", "1HGCM82633A123456", "ABC-123", 2101, 1500, "year"},
		{"negative rate", "1HGCM82633A123456", "ABC-123", 2022, -1, "dailyRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVehicle(tt.vin, tt.plate, "Toyota", "Vios", tt.year, tt.dailyRate)
			require.Error(t, err)
			assert.Nil(t, v)
			derr, ok := AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, CodeValidation, derr.Code)
			assert.Equal(t, tt.wantField, derr.Field)
		})
	}
}

func TestVehicle_MarkRented(t *testing.T) {
	v := &Vehicle{Status: VehicleAvailable}
	require.NoError(t, v.MarkRented())
	assert.Equal(t, VehicleRented, v.Status)

	err := v.MarkRented()
	require.Error(t, err)
	derr, _ := AsDomainError(err)
	assert.Equal(t, CodeInvalidState, derr.Code)
}

func TestVehicle_ReleaseToAvailable(t *testing.T) {
	for _, from := range []VehicleState{VehicleRented, VehicleMaintenance} {
		v := &Vehicle{Status: from}
		require.NoError(t, v.ReleaseToAvailable())
		assert.Equal(t, VehicleAvailable, v.Status)
	}

	v := &Vehicle{Status: VehicleRetired}
	err := v.ReleaseToAvailable()
	require.Error(t, err)
}

func TestVehicle_MarkInMaintenance(t *testing.T) {
	v := &Vehicle{Status: VehicleAvailable}
	require.NoError(t, v.MarkInMaintenance())
	assert.Equal(t, VehicleMaintenance, v.Status)

	rented := &Vehicle{Status: VehicleRented}
	require.Error(t, rented.MarkInMaintenance())

	retired := &Vehicle{Status: VehicleRetired}
	require.Error(t, retired.MarkInMaintenance())
}

func TestVehicle_Retire_FromAnyState(t *testing.T) {
	for _, from := range []VehicleState{VehicleAvailable, VehicleRented, VehicleMaintenance} {
		v := &Vehicle{Status: from}
		v.Retire()
		assert.Equal(t, VehicleRetired, v.Status)
	}
}

func TestVehicle_RecordOdometer(t *testing.T) {
	v := &Vehicle{OdometerKm: 1000}

	require.NoError(t, v.RecordOdometer(1200))
	assert.EqualValues(t, 1200, v.OdometerKm)

	err := v.RecordOdometer(1100)
	require.Error(t, err)
	derr, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidMileage, derr.Code)
	assert.EqualValues(t, 1200, v.OdometerKm, "rejected reading must not mutate state")
}
