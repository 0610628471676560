package driver

import (
	"github.com/ridesync/ridesync/internal/domain/geo"
)

// Status represents driver availability status
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

// VehicleType represents the vehicle class a driver operates
type VehicleType string

const (
	VehicleSedan  VehicleType = "sedan"
	VehicleSUV    VehicleType = "suv"
	VehicleLuxury VehicleType = "luxury"
	VehicleMini   VehicleType = "mini"
)

// Driver represents a driver entity
type Driver struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	VehicleType   VehicleType `json:"vehicle_type"`
	LicensePlate  string      `json:"license_plate"`
	Status        Status      `json:"status"`
	Location      geo.Point   `json:"location"`
	TotalEarnings float64     `json:"total_earnings"`
	Rating        float64     `json:"rating"`
	TotalRides    int         `json:"total_rides"`
}

// IsValid validates the driver entity
func (d *Driver) IsValid() error {
	if d.Name == "" {
		return ErrInvalidDriverName
	}
	if d.Phone == "" {
		return ErrInvalidDriverPhone
	}
	if d.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}
	if !d.Status.IsValid() {
		return ErrInvalidDriverStatus
	}
	if !d.VehicleType.IsValid() {
		return ErrInvalidVehicleType
	}
	if !d.Location.Valid() {
		return ErrInvalidLocation
	}
	return nil
}

// IsAvailable reports whether the driver can be assigned a ride
func (d *Driver) IsAvailable() bool {
	return d.Status == StatusAvailable
}

// IsValid validates the status value
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// IsValid validates the vehicle type
func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleSedan, VehicleSUV, VehicleLuxury, VehicleMini:
		return true
	}
	return false
}

// IsLuxuryClass reports whether the vehicle qualifies for luxury rides
func (v VehicleType) IsLuxuryClass() bool {
	return v == VehicleLuxury || v == VehicleSUV
}

// ParseVehicleType converts a request string into a VehicleType
func ParseVehicleType(s string) (VehicleType, bool) {
	v := VehicleType(s)
	return v, v.IsValid()
}
