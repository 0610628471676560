package dto

import (
	"time"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
)

// BookRideRequest represents a request to book a new ride. Coordinate
// fields use range bindings instead of required so 0.0 stays legal.
type BookRideRequest struct {
	RiderID        string  `json:"rider_id" binding:"required"`
	StartLatitude  float64 `json:"start_latitude" binding:"min=-90,max=90"`
	StartLongitude float64 `json:"start_longitude" binding:"min=-180,max=180"`
	EndLatitude    float64 `json:"end_latitude" binding:"min=-90,max=90"`
	EndLongitude   float64 `json:"end_longitude" binding:"min=-180,max=180"`
	Category       string  `json:"category" binding:"required,oneof=standard pool luxury"`
}

// Start returns the pickup point
func (r *BookRideRequest) Start() geo.Point {
	return geo.Point{Latitude: r.StartLatitude, Longitude: r.StartLongitude}
}

// End returns the dropoff point
func (r *BookRideRequest) End() geo.Point {
	return geo.Point{Latitude: r.EndLatitude, Longitude: r.EndLongitude}
}

// RegisterDriverRequest represents a driver registration
type RegisterDriverRequest struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	VehicleType  string  `json:"vehicle_type" binding:"required,oneof=sedan suv luxury mini"`
	LicensePlate string  `json:"license_plate" binding:"required"`
	Latitude     float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" binding:"min=-180,max=180"`
}

// RegisterRiderRequest represents a rider registration
type RegisterRiderRequest struct {
	Name      string  `json:"name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// SurgeOverrideRequest pins the surge multiplier
type SurgeOverrideRequest struct {
	Multiplier float64 `json:"multiplier" binding:"required,min=1.0,max=2.5"`
}

// RideResponse is the API view of a ride. Nullable fields serialize as
// explicit nulls so clients can distinguish unset from zero.
type RideResponse struct {
	ID               string     `json:"id"`
	RiderID          string     `json:"rider_id"`
	DriverID         *string    `json:"driver_id"`
	DriverName       *string    `json:"driver_name"`
	Vehicle          *string    `json:"vehicle"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	Start            geo.Point  `json:"start"`
	End              geo.Point  `json:"end"`
	DistanceKM       float64    `json:"distance_km"`
	Fare             float64    `json:"fare"`
	SurgeMultiplier  float64    `json:"surge_multiplier"`
	RequestedAt      time.Time  `json:"requested_at"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	Message          string     `json:"message,omitempty"`
}

// Estimated travel pace used for the arrival hint.
const minutesPerKM = 2

// NewRideResponse converts a domain ride into its API view
func NewRideResponse(r *ride.Ride, message string) RideResponse {
	resp := RideResponse{
		ID:              r.ID,
		RiderID:         r.RiderID,
		DriverID:        r.DriverID,
		Category:        string(r.Category),
		Status:          string(r.Status),
		Start:           r.Start,
		End:             r.End,
		DistanceKM:      r.DistanceKM,
		Fare:            r.Fare,
		SurgeMultiplier: r.SurgeMultiplier,
		RequestedAt:     r.RequestedAt,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		Message:         message,
	}
	if r.Status == ride.StatusAssigned || r.Status == ride.StatusStarted {
		eta := r.RequestedAt.Add(time.Duration(r.DistanceKM*minutesPerKM*60) * time.Second)
		resp.EstimatedArrival = &eta
	}
	return resp
}

// WithDriver fills in the assigned driver's name and vehicle
func (r RideResponse) WithDriver(d *driver.Driver) RideResponse {
	if d != nil {
		r.DriverName = &d.Name
		vehicle := string(d.VehicleType)
		r.Vehicle = &vehicle
	}
	return r
}

// DriverResponse is the API view of a driver
type DriverResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	VehicleType   string    `json:"vehicle_type"`
	LicensePlate  string    `json:"license_plate"`
	Status        string    `json:"status"`
	Location      geo.Point `json:"location"`
	TotalEarnings float64   `json:"total_earnings"`
	Rating        float64   `json:"rating"`
	TotalRides    int       `json:"total_rides"`
}

// NewDriverResponse converts a domain driver into its API view
func NewDriverResponse(d *driver.Driver) DriverResponse {
	return DriverResponse{
		ID:            d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		VehicleType:   string(d.VehicleType),
		LicensePlate:  d.LicensePlate,
		Status:        string(d.Status),
		Location:      d.Location,
		TotalEarnings: d.TotalEarnings,
		Rating:        d.Rating,
		TotalRides:    d.TotalRides,
	}
}

// RiderResponse is the API view of a rider
type RiderResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Home    geo.Point `json:"home"`
	Rating  float64   `json:"rating"`
	RideIDs []string  `json:"ride_ids"`
}

// NewRiderResponse converts a domain rider into its API view
func NewRiderResponse(r *rider.Rider) RiderResponse {
	ids := r.RideIDs
	if ids == nil {
		ids = []string{}
	}
	return RiderResponse{
		ID:      r.ID,
		Name:    r.Name,
		Phone:   r.Phone,
		Home:    r.Home,
		Rating:  r.Rating,
		RideIDs: ids,
	}
}

// ErrorResponse is the uniform error body. ValidationErrors is set only
// for request binding failures.
type ErrorResponse struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}
