// Package seed loads a deterministic demo fleet and rider pool so a
// fresh instance is bookable immediately.
package seed

import (
	"context"
	"fmt"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/pkg/logger"
)

// Drivers is the demo fleet, all positioned around Manhattan
func Drivers() []*driver.Driver {
	specs := []struct {
		name    string
		phone   string
		vehicle driver.VehicleType
		plate   string
		loc     geo.Point
	}{
		{"John Smith", "+1-555-0101", driver.VehicleSedan, "ABC-1234", geo.Point{Latitude: 40.7128, Longitude: -74.0060}},
		{"Sarah Johnson", "+1-555-0102", driver.VehicleSUV, "XYZ-5678", geo.Point{Latitude: 40.7580, Longitude: -73.9855}},
		{"Michael Chen", "+1-555-0103", driver.VehicleLuxury, "LUX-9999", geo.Point{Latitude: 40.7489, Longitude: -73.9680}},
		{"Emily Davis", "+1-555-0104", driver.VehicleMini, "MINI-1111", geo.Point{Latitude: 40.7614, Longitude: -73.9776}},
		{"Robert Garcia", "+1-555-0105", driver.VehicleSedan, "STD-2468", geo.Point{Latitude: 40.7589, Longitude: -73.9851}},
	}

	out := make([]*driver.Driver, len(specs))
	for i, s := range specs {
		out[i] = &driver.Driver{
			ID:           fmt.Sprintf("DRV-%03d", i+1),
			Name:         s.name,
			Phone:        s.phone,
			VehicleType:  s.vehicle,
			LicensePlate: s.plate,
			Status:       driver.StatusAvailable,
			Location:     s.loc,
			Rating:       5.0,
		}
	}
	return out
}

// Riders is the demo rider pool
func Riders() []*rider.Rider {
	specs := []struct {
		name  string
		phone string
		home  geo.Point
	}{
		{"Alice Williams", "+1-555-1001", geo.Point{Latitude: 40.7128, Longitude: -74.0060}},
		{"Bob Brown", "+1-555-1002", geo.Point{Latitude: 40.7580, Longitude: -73.9855}},
		{"Carol Martinez", "+1-555-1003", geo.Point{Latitude: 40.7489, Longitude: -73.9680}},
		{"David Lee", "+1-555-1004", geo.Point{Latitude: 40.7614, Longitude: -73.9776}},
		{"Eva Taylor", "+1-555-1005", geo.Point{Latitude: 40.7589, Longitude: -73.9851}},
		{"Frank Anderson", "+1-555-1006", geo.Point{Latitude: 40.7306, Longitude: -73.9352}},
		{"Grace Wilson", "+1-555-1007", geo.Point{Latitude: 40.7484, Longitude: -73.9857}},
		{"Henry Moore", "+1-555-1008", geo.Point{Latitude: 40.7549, Longitude: -73.9840}},
		{"Ivy Jackson", "+1-555-1009", geo.Point{Latitude: 40.7505, Longitude: -73.9934}},
		{"Jack White", "+1-555-1010", geo.Point{Latitude: 40.7580, Longitude: -73.9910}},
	}

	out := make([]*rider.Rider, len(specs))
	for i, s := range specs {
		out[i] = &rider.Rider{
			ID:     fmt.Sprintf("RDR-%03d", i+1),
			Name:   s.name,
			Phone:  s.phone,
			Home:   s.home,
			Rating: 5.0,
		}
	}
	return out
}

// Load writes the demo data through the repositories. Seeding is
// upsert-based, so rerunning against an existing store is safe.
func Load(ctx context.Context, drivers driver.Repository, riders rider.Repository, log *logger.Logger) error {
	for _, d := range Drivers() {
		if err := drivers.Put(ctx, d); err != nil {
			return err
		}
	}
	for _, r := range Riders() {
		if err := riders.Put(ctx, r); err != nil {
			return err
		}
	}
	log.Info("Seed data loaded",
		logger.Int("drivers", len(Drivers())),
		logger.Int("riders", len(Riders())),
	)
	return nil
}
