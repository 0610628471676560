// Package memory provides map-backed repositories guarded by their own
// locks. Every Put stores a copy and every Get returns one, so callers
// can mutate entities freely between calls.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/pkg/errors"
)

// DriverRepository is an in-memory driver.Repository
type DriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]driver.Driver
}

// NewDriverRepository creates an empty driver repository
func NewDriverRepository() *DriverRepository {
	return &DriverRepository{drivers: make(map[string]driver.Driver)}
}

// Put creates or replaces a driver
func (r *DriverRepository) Put(_ context.Context, d *driver.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[d.ID] = *d
	return nil
}

// Get retrieves a driver by id
func (r *DriverRepository) Get(_ context.Context, id string) (*driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, errors.DriverNotFound(id)
	}
	return &d, nil
}

// ListByStatus retrieves drivers in the given status, ordered by id
func (r *DriverRepository) ListByStatus(_ context.Context, status driver.Status) ([]*driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*driver.Driver
	for _, d := range r.drivers {
		if d.Status == status {
			c := d
			out = append(out, &c)
		}
	}
	sortDrivers(out)
	return out, nil
}

// ListAll retrieves every driver, ordered by id
func (r *DriverRepository) ListAll(_ context.Context) ([]*driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*driver.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		c := d
		out = append(out, &c)
	}
	sortDrivers(out)
	return out, nil
}

func sortDrivers(ds []*driver.Driver) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].ID < ds[j].ID })
}

// RideRepository is an in-memory ride.Repository
type RideRepository struct {
	mu    sync.RWMutex
	rides map[string]ride.Ride
	order []string // insertion order for stable listings
}

// NewRideRepository creates an empty ride repository
func NewRideRepository() *RideRepository {
	return &RideRepository{rides: make(map[string]ride.Ride)}
}

// Put creates or replaces a ride
func (r *RideRepository) Put(_ context.Context, rd *ride.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rides[rd.ID]; !exists {
		r.order = append(r.order, rd.ID)
	}
	r.rides[rd.ID] = copyRide(rd)
	return nil
}

// Get retrieves a ride by id
func (r *RideRepository) Get(_ context.Context, id string) (*ride.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.rides[id]
	if !ok {
		return nil, errors.RideNotFound(id)
	}
	c := copyRide(&rd)
	return &c, nil
}

// ListByRider retrieves rides requested by a rider
func (r *RideRepository) ListByRider(_ context.Context, riderID string) ([]*ride.Ride, error) {
	return r.list(func(rd *ride.Ride) bool { return rd.RiderID == riderID })
}

// ListByDriver retrieves rides assigned to a driver
func (r *RideRepository) ListByDriver(_ context.Context, driverID string) ([]*ride.Ride, error) {
	return r.list(func(rd *ride.Ride) bool { return rd.DriverID != nil && *rd.DriverID == driverID })
}

// ListByStatus retrieves rides in the given status
func (r *RideRepository) ListByStatus(_ context.Context, status ride.Status) ([]*ride.Ride, error) {
	return r.list(func(rd *ride.Ride) bool { return rd.Status == status })
}

// CountByStatus counts rides in the given status
func (r *RideRepository) CountByStatus(_ context.Context, status ride.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rd := range r.rides {
		if rd.Status == status {
			n++
		}
	}
	return n, nil
}

// ListAll retrieves every ride in insertion order
func (r *RideRepository) ListAll(_ context.Context) ([]*ride.Ride, error) {
	return r.list(func(*ride.Ride) bool { return true })
}

func (r *RideRepository) list(keep func(*ride.Ride) bool) ([]*ride.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ride.Ride
	for _, id := range r.order {
		rd := r.rides[id]
		if keep(&rd) {
			c := copyRide(&rd)
			out = append(out, &c)
		}
	}
	return out, nil
}

func copyRide(rd *ride.Ride) ride.Ride {
	c := *rd
	if rd.DriverID != nil {
		v := *rd.DriverID
		c.DriverID = &v
	}
	if rd.StartedAt != nil {
		v := *rd.StartedAt
		c.StartedAt = &v
	}
	if rd.CompletedAt != nil {
		v := *rd.CompletedAt
		c.CompletedAt = &v
	}
	return c
}

// RiderRepository is an in-memory rider.Repository
type RiderRepository struct {
	mu     sync.RWMutex
	riders map[string]rider.Rider
}

// NewRiderRepository creates an empty rider repository
func NewRiderRepository() *RiderRepository {
	return &RiderRepository{riders: make(map[string]rider.Rider)}
}

// Put creates or replaces a rider
func (r *RiderRepository) Put(_ context.Context, rd *rider.Rider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rd
	c.RideIDs = append([]string(nil), rd.RideIDs...)
	r.riders[rd.ID] = c
	return nil
}

// Get retrieves a rider by id
func (r *RiderRepository) Get(_ context.Context, id string) (*rider.Rider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rd, ok := r.riders[id]
	if !ok {
		return nil, errors.RiderNotFound(id)
	}
	c := rd
	c.RideIDs = append([]string(nil), rd.RideIDs...)
	return &c, nil
}

// ListAll retrieves every rider
func (r *RiderRepository) ListAll(_ context.Context) ([]*rider.Rider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*rider.Rider, 0, len(r.riders))
	for _, rd := range r.riders {
		c := rd
		c.RideIDs = append([]string(nil), rd.RideIDs...)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
