package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
)

// fakeRow feeds canned column values into the scan helpers
type fakeRow struct {
	values []interface{}
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d columns, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case *float64:
			*d = v.(float64)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		case **time.Time:
			if v == nil {
				*d = nil
			} else {
				t := v.(time.Time)
				*d = &t
			}
		default:
			return fmt.Errorf("unhandled scan destination %T", dest[i])
		}
	}
	return nil
}

func TestScanDriver(t *testing.T) {
	row := &fakeRow{values: []interface{}{
		"DRV-001", "John Smith", "+1-555-0101", "sedan", "ABC-1234", "available",
		40.7128, -74.0060, 280.0, 4.8, 3,
	}}

	d, err := scanDriver(row)
	require.NoError(t, err)

	assert.Equal(t, "DRV-001", d.ID)
	assert.Equal(t, driver.VehicleSedan, d.VehicleType)
	assert.Equal(t, driver.StatusAvailable, d.Status)
	assert.Equal(t, 40.7128, d.Location.Latitude)
	assert.Equal(t, -74.0060, d.Location.Longitude)
	assert.Equal(t, 280.0, d.TotalEarnings)
	assert.Equal(t, 3, d.TotalRides)
}

func TestScanRide(t *testing.T) {
	requested := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	started := requested.Add(5 * time.Minute)

	t.Run("assigned ride with open timestamps", func(t *testing.T) {
		row := &fakeRow{values: []interface{}{
			"RIDE-A1B2C3D4", "RDR-001", "DRV-001", "standard", "assigned",
			12.9716, 77.5946, 13.0827, 77.5877,
			16.9, 226.80, 1.2,
			requested, nil, nil,
		}}

		r, err := scanRide(row)
		require.NoError(t, err)

		assert.Equal(t, "RIDE-A1B2C3D4", r.ID)
		require.NotNil(t, r.DriverID)
		assert.Equal(t, "DRV-001", *r.DriverID)
		assert.Equal(t, ride.CategoryStandard, r.Category)
		assert.Equal(t, ride.StatusAssigned, r.Status)
		assert.Equal(t, 226.80, r.Fare)
		assert.True(t, r.RequestedAt.Equal(requested))
		assert.Nil(t, r.StartedAt)
		assert.Nil(t, r.CompletedAt)
	})

	t.Run("cancelled ride without a driver", func(t *testing.T) {
		row := &fakeRow{values: []interface{}{
			"RIDE-E5F6A7B8", "RDR-002", nil, "pool", "cancelled",
			12.9716, 77.5946, 13.0827, 77.5877,
			16.9, 0.0, 1.0,
			requested, nil, nil,
		}}

		r, err := scanRide(row)
		require.NoError(t, err)

		assert.Nil(t, r.DriverID)
		assert.Equal(t, ride.StatusCancelled, r.Status)
	})

	t.Run("started ride", func(t *testing.T) {
		row := &fakeRow{values: []interface{}{
			"RIDE-A1B2C3D4", "RDR-001", "DRV-001", "luxury", "started",
			12.9716, 77.5946, 13.0827, 77.5877,
			16.9, 540.0, 1.2,
			requested, started, nil,
		}}

		r, err := scanRide(row)
		require.NoError(t, err)

		assert.Equal(t, ride.StatusStarted, r.Status)
		require.NotNil(t, r.StartedAt)
		assert.True(t, r.StartedAt.Equal(started))
		assert.Nil(t, r.CompletedAt)
	})
}
