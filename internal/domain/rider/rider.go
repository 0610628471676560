package rider

import (
	"context"
	"errors"

	"github.com/ridesync/ridesync/internal/domain/geo"
)

var ErrInvalidRider = errors.New("invalid rider data")

// Rider represents a passenger. RideIDs is the ordered history of
// completed rides, appended only by dispatch.
type Rider struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Home    geo.Point `json:"home"`
	Rating  float64   `json:"rating"`
	RideIDs []string  `json:"ride_ids"`
}

// Repository is the persistence contract for riders
type Repository interface {
	Put(ctx context.Context, r *Rider) error
	Get(ctx context.Context, id string) (*Rider, error)
	ListAll(ctx context.Context) ([]*Rider, error)
}

// IsValid validates the rider entity
func (r *Rider) IsValid() error {
	if r.Name == "" || r.Phone == "" {
		return ErrInvalidRider
	}
	if !r.Home.Valid() {
		return ErrInvalidRider
	}
	if r.Rating < 0 || r.Rating > 5 {
		return ErrInvalidRider
	}
	return nil
}

// AddRide appends a ride id to the rider's history
func (r *Rider) AddRide(rideID string) {
	r.RideIDs = append(r.RideIDs, rideID)
}
