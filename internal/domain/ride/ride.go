package ride

import (
	"context"
	"time"

	"github.com/ridesync/ridesync/internal/domain/geo"
)

// Status represents the lifecycle status of a ride
type Status string

const (
	StatusRequested Status = "requested"
	StatusAssigned  Status = "assigned"
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Category selects the pricing policy and driver eligibility for a ride
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryPool     Category = "pool"
	CategoryLuxury   Category = "luxury"
)

// Ride represents a ride through its whole lifecycle. DriverID is nil
// until a driver is assigned; a cancelled ride may keep it nil forever.
type Ride struct {
	ID              string     `json:"id"`
	RiderID         string     `json:"rider_id"`
	DriverID        *string    `json:"driver_id"`
	Category        Category   `json:"category"`
	Status          Status     `json:"status"`
	Start           geo.Point  `json:"start"`
	End             geo.Point  `json:"end"`
	DistanceKM      float64    `json:"distance_km"`
	Fare            float64    `json:"fare"`
	SurgeMultiplier float64    `json:"surge_multiplier"`
	RequestedAt     time.Time  `json:"requested_at"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// Repository is the persistence contract for rides. Each call is
// transactional on its own; multi-entity atomicity belongs to dispatch.
type Repository interface {
	Put(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id string) (*Ride, error)
	ListByRider(ctx context.Context, riderID string) ([]*Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]*Ride, error)
	ListByStatus(ctx context.Context, status Status) ([]*Ride, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	ListAll(ctx context.Context) ([]*Ride, error)
}

// IsValid validates the status value
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusAssigned, StatusStarted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether a ride in this status counts toward demand
func (s Status) IsActive() bool {
	return s == StatusRequested || s == StatusAssigned || s == StatusStarted
}

// IsValid validates the category value
func (c Category) IsValid() bool {
	switch c {
	case CategoryStandard, CategoryPool, CategoryLuxury:
		return true
	}
	return false
}

// ParseCategory converts a request string into a Category
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.IsValid()
}

// CanAssign checks if a driver can be assigned to this ride
func (r *Ride) CanAssign() bool {
	return r.Status == StatusRequested
}

// CanStart checks if the ride can be started
func (r *Ride) CanStart() bool {
	return r.Status == StatusAssigned
}

// CanComplete checks if the ride can be completed
func (r *Ride) CanComplete() bool {
	return r.Status == StatusStarted
}

// CanCancel checks if the ride can be cancelled
func (r *Ride) CanCancel() bool {
	return !r.Status.IsTerminal()
}
