// Package dispatch owns the driver and ride state machines. It is the
// only component that moves drivers between available and busy, and the
// only one that advances a ride through its lifecycle.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/internal/service/pricing"
	"github.com/ridesync/ridesync/internal/service/ridelog"
	"github.com/ridesync/ridesync/internal/service/surge"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
)

// Publisher delivers lifecycle events to a channel keyed by rider or
// driver id. Implementations must not block.
type Publisher interface {
	Publish(channel string, event interface{})
}

// Notification is the lifecycle event payload
type Notification struct {
	RideID     string      `json:"ride_id"`
	Status     ride.Status `json:"status"`
	DriverID   *string     `json:"driver_id,omitempty"`
	DriverName *string     `json:"driver_name,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// BookRequest carries a validated booking
type BookRequest struct {
	RiderID  string
	Start    geo.Point
	End      geo.Point
	Category ride.Category
}

// Config holds dispatch dependencies
type Config struct {
	Rides     ride.Repository
	Drivers   driver.Repository
	Riders    rider.Repository
	Surge     *surge.Estimator
	RideLog   *ridelog.Logger
	Publisher Publisher
	Logger    *logger.Logger
	Clock     func() time.Time
}

// Service is the dispatch core. A single mutex serializes the
// allocation read-modify-write and the per-ride lifecycle transitions;
// ride logging and notifications happen outside it.
type Service struct {
	rides   ride.Repository
	drivers driver.Repository
	riders  rider.Repository
	surge   *surge.Estimator
	rideLog *ridelog.Logger
	pub     Publisher
	logger  *logger.Logger
	now     func() time.Time

	mu sync.Mutex // guards driver selection and state transitions
}

// New creates the dispatch service
func New(cfg Config) *Service {
	s := &Service{
		rides:   cfg.Rides,
		drivers: cfg.Drivers,
		riders:  cfg.Riders,
		surge:   cfg.Surge,
		rideLog: cfg.RideLog,
		pub:     cfg.Publisher,
		logger:  cfg.Logger,
		now:     cfg.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	return s
}

// Book creates a ride, atomically assigns the nearest eligible driver
// and stamps surge and fare. The first persisted state is assigned.
func (s *Service) Book(ctx context.Context, req BookRequest) (*ride.Ride, error) {
	if _, err := s.riders.Get(ctx, req.RiderID); err != nil {
		return nil, err
	}

	r, err := ride.New(req.Category, req.RiderID, req.Start, req.End, s.now())
	if err != nil {
		return nil, err
	}

	assigned, matched, err := s.allocate(ctx, r)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ride booked",
		logger.String("ride_id", assigned.ID),
		logger.String("rider_id", assigned.RiderID),
		logger.String("driver_id", matched.ID),
		logger.Float64("distance_km", assigned.DistanceKM),
		logger.Float64("fare", assigned.Fare),
		logger.Float64("surge_multiplier", assigned.SurgeMultiplier),
	)

	s.afterTransition(assigned, matched)
	return assigned, nil
}

// allocate is the critical section: read available drivers, pick one,
// write driver and ride. Everything else stays outside the mutex.
func (s *Service) allocate(ctx context.Context, r *ride.Ride) (*ride.Ride, *driver.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.drivers.ListByStatus(ctx, driver.StatusAvailable)
	if err != nil {
		return nil, nil, errors.Internal("Failed to list available drivers", err)
	}

	best := nearestEligible(available, r)
	if best == nil {
		return nil, nil, errors.NoDriverAvailable()
	}

	multiplier := s.surge.Estimate(ctx, s.activeRideCount(ctx))
	fare := pricing.Round(pricing.PolicyFor(r.Category).Fare(r.DistanceKM, multiplier))

	assigned := *r
	driverID := best.ID
	assigned.DriverID = &driverID
	assigned.Status = ride.StatusAssigned
	assigned.SurgeMultiplier = multiplier
	assigned.Fare = fare

	if err := s.rides.Put(ctx, &assigned); err != nil {
		s.logger.Error("Failed to persist ride assignment",
			logger.Err(err), logger.String("ride_id", r.ID))
		return nil, nil, errors.DispatchConflict("Failed to persist ride assignment", err)
	}

	busy := *best
	busy.Status = driver.StatusBusy
	if err := s.drivers.Put(ctx, &busy); err != nil {
		s.logger.Error("Failed to persist driver assignment, rolling ride back",
			logger.Err(err), logger.String("ride_id", r.ID), logger.String("driver_id", best.ID))
		if rbErr := s.rides.Put(ctx, r); rbErr != nil {
			s.logger.Error("Compensating write failed, ride state needs reconciliation",
				logger.Err(rbErr), logger.String("ride_id", r.ID))
		}
		return nil, nil, errors.DispatchConflict("Failed to persist driver assignment", err)
	}

	return &assigned, &busy, nil
}

// Start transitions an assigned ride to started
func (s *Service) Start(ctx context.Context, rideID string) (*ride.Ride, error) {
	s.mu.Lock()

	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !r.CanStart() {
		s.mu.Unlock()
		return nil, errors.IllegalTransition(fmt.Sprintf("Cannot start a ride in status %s", r.Status))
	}

	now := s.now()
	r.Status = ride.StatusStarted
	r.StartedAt = &now

	if err := s.rides.Put(ctx, r); err != nil {
		s.mu.Unlock()
		return nil, errors.Internal("Failed to persist ride start", err)
	}
	s.mu.Unlock()

	s.logger.Info("Ride started", logger.String("ride_id", r.ID))
	s.afterTransition(r, s.lookupDriver(ctx, r))
	return r, nil
}

// Complete transitions a started ride to completed, frees the driver,
// credits earnings and appends the ride to the rider's history.
func (s *Service) Complete(ctx context.Context, rideID string) (*ride.Ride, error) {
	s.mu.Lock()

	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !r.CanComplete() {
		s.mu.Unlock()
		return nil, errors.IllegalTransition(fmt.Sprintf("Cannot complete a ride in status %s", r.Status))
	}

	d, err := s.drivers.Get(ctx, *r.DriverID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rd, err := s.riders.Get(ctx, r.RiderID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	prevRide := *r
	prevDriver := *d

	now := s.now()
	r.Status = ride.StatusCompleted
	r.CompletedAt = &now
	// Fare was stamped at assignment and stays as-is.

	d.Status = driver.StatusAvailable
	d.TotalEarnings += r.Fare
	d.TotalRides++

	rd.AddRide(r.ID)

	if err := s.persistCompletion(ctx, r, d, rd, &prevRide, &prevDriver); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("Ride completed",
		logger.String("ride_id", r.ID),
		logger.String("driver_id", d.ID),
		logger.Float64("fare", r.Fare),
	)
	s.afterTransition(r, d)
	return r, nil
}

func (s *Service) persistCompletion(ctx context.Context, r *ride.Ride, d *driver.Driver, rd *rider.Rider, prevRide *ride.Ride, prevDriver *driver.Driver) error {
	if err := s.rides.Put(ctx, r); err != nil {
		s.logger.Error("Failed to persist ride completion", logger.Err(err), logger.String("ride_id", r.ID))
		return errors.DispatchConflict("Failed to persist ride completion", err)
	}
	if err := s.drivers.Put(ctx, d); err != nil {
		s.logger.Error("Failed to persist driver after completion, rolling back",
			logger.Err(err), logger.String("ride_id", r.ID))
		if rbErr := s.rides.Put(ctx, prevRide); rbErr != nil {
			s.logger.Error("Compensating write failed, ride state needs reconciliation",
				logger.Err(rbErr), logger.String("ride_id", r.ID))
		}
		return errors.DispatchConflict("Failed to persist driver earnings", err)
	}
	if err := s.riders.Put(ctx, rd); err != nil {
		s.logger.Error("Failed to persist rider history, rolling back",
			logger.Err(err), logger.String("ride_id", r.ID))
		if rbErr := s.rides.Put(ctx, prevRide); rbErr != nil {
			s.logger.Error("Compensating write failed, ride state needs reconciliation",
				logger.Err(rbErr), logger.String("ride_id", r.ID))
		}
		if rbErr := s.drivers.Put(ctx, prevDriver); rbErr != nil {
			s.logger.Error("Compensating write failed, driver state needs reconciliation",
				logger.Err(rbErr), logger.String("driver_id", prevDriver.ID))
		}
		return errors.DispatchConflict("Failed to persist rider history", err)
	}
	return nil
}

// Cancel transitions a non-terminal ride to cancelled. A driver already
// assigned or on the ride returns to available.
func (s *Service) Cancel(ctx context.Context, rideID string) (*ride.Ride, error) {
	s.mu.Lock()

	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !r.CanCancel() {
		s.mu.Unlock()
		return nil, errors.IllegalTransition(fmt.Sprintf("Ride is already %s", r.Status))
	}

	var freed *driver.Driver
	if r.DriverID != nil && (r.Status == ride.StatusAssigned || r.Status == ride.StatusStarted) {
		d, err := s.drivers.Get(ctx, *r.DriverID)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		d.Status = driver.StatusAvailable
		freed = d
	}

	prevRide := *r
	r.Status = ride.StatusCancelled

	if err := s.rides.Put(ctx, r); err != nil {
		s.mu.Unlock()
		return nil, errors.DispatchConflict("Failed to persist ride cancellation", err)
	}
	if freed != nil {
		if err := s.drivers.Put(ctx, freed); err != nil {
			s.logger.Error("Failed to free driver on cancellation, rolling back",
				logger.Err(err), logger.String("ride_id", r.ID))
			if rbErr := s.rides.Put(ctx, &prevRide); rbErr != nil {
				s.logger.Error("Compensating write failed, ride state needs reconciliation",
					logger.Err(rbErr), logger.String("ride_id", r.ID))
			}
			s.mu.Unlock()
			return nil, errors.DispatchConflict("Failed to free driver", err)
		}
	}
	s.mu.Unlock()

	s.logger.Info("Ride cancelled", logger.String("ride_id", r.ID))
	s.afterTransition(r, freed)
	return r, nil
}

// Get fetches a ride. The surge multiplier stamped at assignment is
// returned as stored, never recomputed.
func (s *Service) Get(ctx context.Context, rideID string) (*ride.Ride, error) {
	return s.rides.Get(ctx, rideID)
}

// nearestEligible picks the closest eligible driver to the pickup
// point. Ties break on the lexicographically lowest driver id so
// concurrent bookings are deterministic.
func nearestEligible(available []*driver.Driver, r *ride.Ride) *driver.Driver {
	var best *driver.Driver
	var bestDist float64

	for _, d := range available {
		if !d.IsAvailable() || !eligible(d, r.Category) {
			continue
		}
		dist := geo.Distance(d.Location, r.Start)
		if best == nil || dist < bestDist || (dist == bestDist && d.ID < best.ID) {
			best = d
			bestDist = dist
		}
	}
	return best
}

// eligible applies the category predicate: luxury rides need a
// luxury-class vehicle, standard and pool take anything.
func eligible(d *driver.Driver, c ride.Category) bool {
	if c == ride.CategoryLuxury {
		return d.VehicleType.IsLuxuryClass()
	}
	return true
}

// activeRideCount is the coarse demand signal fed to the surge
// estimator. Count failures degrade to zero demand rather than
// blocking the booking.
func (s *Service) activeRideCount(ctx context.Context) int {
	total := 0
	for _, st := range []ride.Status{ride.StatusRequested, ride.StatusAssigned, ride.StatusStarted} {
		n, err := s.rides.CountByStatus(ctx, st)
		if err != nil {
			s.logger.Warn("Failed to count active rides", logger.Err(err))
			return 0
		}
		total += n
	}
	return total
}

func (s *Service) lookupDriver(ctx context.Context, r *ride.Ride) *driver.Driver {
	if r.DriverID == nil {
		return nil
	}
	d, err := s.drivers.Get(ctx, *r.DriverID)
	if err != nil {
		s.logger.Warn("Driver lookup for notification failed",
			logger.Err(err), logger.String("driver_id", *r.DriverID))
		return nil
	}
	return d
}

// afterTransition runs the fire-and-forget side effects: the ride log
// append and the lifecycle notifications. Called outside the mutex.
func (s *Service) afterTransition(r *ride.Ride, d *driver.Driver) {
	if s.rideLog != nil {
		s.rideLog.Append(r)
	}
	if s.pub == nil {
		return
	}

	n := Notification{
		RideID:    r.ID,
		Status:    r.Status,
		Timestamp: s.now(),
	}
	if d != nil {
		n.DriverID = &d.ID
		n.DriverName = &d.Name
	}

	s.pub.Publish(r.RiderID, n)
	if d != nil {
		s.pub.Publish(d.ID, n)
	}
}
