package ride

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/pkg/errors"
)

// Booking validation bounds. Anything shorter than a city block or
// longer than an intercity leg is rejected before dispatch runs.
const (
	MinDistanceKM = 0.5
	MaxDistanceKM = 500
)

// New constructs a ride of the requested category in its initial state.
// Distance is computed once here and never recomputed.
func New(category Category, riderID string, start, end geo.Point, requestedAt time.Time) (*Ride, error) {
	if !category.IsValid() {
		return nil, errors.InvalidRideRequest(fmt.Sprintf("Unknown ride category %q", category), nil)
	}
	if !start.Valid() || !end.Valid() {
		return nil, errors.InvalidRideRequest("Coordinates out of range", nil)
	}

	distance := geo.Distance(start, end)
	if distance < MinDistanceKM {
		return nil, errors.InvalidRideRequest(
			fmt.Sprintf("Ride distance %.2f km is below the %.1f km minimum", distance, MinDistanceKM), nil)
	}
	if distance > MaxDistanceKM {
		return nil, errors.InvalidRideRequest(
			fmt.Sprintf("Ride distance %.2f km exceeds the %d km maximum", distance, int(MaxDistanceKM)), nil)
	}

	return &Ride{
		ID:              NewID(),
		RiderID:         riderID,
		Category:        category,
		Status:          StatusRequested,
		Start:           start,
		End:             end,
		DistanceKM:      distance,
		SurgeMultiplier: 1.0,
		RequestedAt:     requestedAt,
	}, nil
}

// NewID generates an opaque ride id
func NewID() string {
	return "RIDE-" + strings.ToUpper(uuid.NewString()[:8])
}
