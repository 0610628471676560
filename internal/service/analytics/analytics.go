// Package analytics computes read-only aggregates over the ride and
// driver stores. It never mutates state and holds no locks of its own;
// results are point-in-time snapshots.
package analytics

import (
	"context"
	"sort"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/service/pricing"
	"github.com/ridesync/ridesync/pkg/errors"
)

// Dashboard is the aggregate overview of the platform
type Dashboard struct {
	TotalRides      int                    `json:"total_rides"`
	CompletedRides  int                    `json:"completed_rides"`
	ActiveRides     int                    `json:"active_rides"`
	TotalRevenue    float64                `json:"total_revenue"`
	AverageFare     float64                `json:"average_fare"`
	AverageDistance float64                `json:"average_distance_km"`
	RidesByCategory map[ride.Category]int  `json:"rides_by_category"`
	RidesByStatus   map[ride.Status]int    `json:"rides_by_status"`
	TopDrivers      []DriverEarnings       `json:"top_drivers"`
}

// DriverEarnings is one row of the earnings leaderboard
type DriverEarnings struct {
	DriverID      string  `json:"driver_id"`
	Name          string  `json:"name"`
	TotalEarnings float64 `json:"total_earnings"`
	TotalRides    int     `json:"total_rides"`
	Rating        float64 `json:"rating"`
}

// Filter narrows ride listings. Zero values mean no constraint; when
// both are set they combine with AND.
type Filter struct {
	Status   ride.Status
	Category ride.Category
}

// Service computes analytics over the repositories
type Service struct {
	rides   ride.Repository
	drivers driver.Repository
}

// New creates the analytics service
func New(rides ride.Repository, drivers driver.Repository) *Service {
	return &Service{rides: rides, drivers: drivers}
}

const topDriverLimit = 5

// Dashboard builds the aggregate overview. Revenue and averages count
// completed rides only; empty data yields zeros, never NaN.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	rides, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list rides", err)
	}

	d := &Dashboard{
		RidesByCategory: make(map[ride.Category]int),
		RidesByStatus:   make(map[ride.Status]int),
	}

	var revenue, distance float64
	for _, r := range rides {
		d.TotalRides++
		d.RidesByCategory[r.Category]++
		d.RidesByStatus[r.Status]++
		if r.Status.IsActive() {
			d.ActiveRides++
		}
		if r.Status == ride.StatusCompleted {
			d.CompletedRides++
			revenue += r.Fare
			distance += r.DistanceKM
		}
	}

	d.TotalRevenue = pricing.Round(revenue)
	if d.CompletedRides > 0 {
		d.AverageFare = pricing.Round(revenue / float64(d.CompletedRides))
		d.AverageDistance = pricing.Round(distance / float64(d.CompletedRides))
	}

	top, err := s.TopDriversByEarnings(ctx, topDriverLimit)
	if err != nil {
		return nil, err
	}
	d.TopDrivers = top
	return d, nil
}

// TopDriversByEarnings returns up to limit drivers ranked by lifetime
// earnings, ties broken by id for stable output.
func (s *Service) TopDriversByEarnings(ctx context.Context, limit int) ([]DriverEarnings, error) {
	all, err := s.drivers.ListAll(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list drivers", err)
	}

	rows := make([]DriverEarnings, 0, len(all))
	for _, d := range all {
		rows = append(rows, DriverEarnings{
			DriverID:      d.ID,
			Name:          d.Name,
			TotalEarnings: pricing.Round(d.TotalEarnings),
			TotalRides:    d.TotalRides,
			Rating:        d.Rating,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalEarnings != rows[j].TotalEarnings {
			return rows[i].TotalEarnings > rows[j].TotalEarnings
		}
		return rows[i].DriverID < rows[j].DriverID
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// DriverEarningsFor sums the fares of a driver's completed rides. The
// result matches the driver's running TotalEarnings when every
// completion went through dispatch.
func (s *Service) DriverEarningsFor(ctx context.Context, driverID string) (*DriverEarnings, error) {
	d, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	rides, err := s.rides.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, errors.Internal("Failed to list driver rides", err)
	}

	row := &DriverEarnings{
		DriverID: d.ID,
		Name:     d.Name,
		Rating:   d.Rating,
	}
	for _, r := range rides {
		if r.Status == ride.StatusCompleted {
			row.TotalEarnings += r.Fare
			row.TotalRides++
		}
	}
	row.TotalEarnings = pricing.Round(row.TotalEarnings)
	return row, nil
}

// FilterRides lists rides matching the filter, preserving the store's
// insertion order.
func (s *Service) FilterRides(ctx context.Context, f Filter) ([]*ride.Ride, error) {
	rides, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list rides", err)
	}

	out := make([]*ride.Ride, 0, len(rides))
	for _, r := range rides {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// AverageFareByCategory computes the mean completed fare per category.
// Categories with no completed rides are omitted.
func (s *Service) AverageFareByCategory(ctx context.Context) (map[ride.Category]float64, error) {
	rides, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list rides", err)
	}

	sums := make(map[ride.Category]float64)
	counts := make(map[ride.Category]int)
	for _, r := range rides {
		if r.Status != ride.StatusCompleted {
			continue
		}
		sums[r.Category] += r.Fare
		counts[r.Category]++
	}

	out := make(map[ride.Category]float64, len(sums))
	for c, sum := range sums {
		out[c] = pricing.Round(sum / float64(counts[c]))
	}
	return out, nil
}
