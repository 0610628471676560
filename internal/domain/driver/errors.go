package driver

import "errors"

var (
	ErrInvalidDriverName   = errors.New("invalid driver name")
	ErrInvalidDriverPhone  = errors.New("invalid driver phone")
	ErrInvalidLicensePlate = errors.New("invalid license plate")
	ErrInvalidDriverStatus = errors.New("invalid driver status")
	ErrInvalidVehicleType  = errors.New("invalid vehicle type")
	ErrInvalidLocation     = errors.New("invalid driver location")
)
