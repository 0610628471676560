package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Common error constructors

// BadRequest creates a 400 error
func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// Conflict creates a 409 error
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ServiceUnavailable creates a 503 error
func ServiceUnavailable(message string, err error) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// Domain error codes
const (
	CodeInvalidRideRequest = "INVALID_RIDE_REQUEST"
	CodeRiderNotFound      = "RIDER_NOT_FOUND"
	CodeDriverNotFound     = "DRIVER_NOT_FOUND"
	CodeRideNotFound       = "RIDE_NOT_FOUND"
	CodeNoDriverAvailable  = "NO_DRIVER_AVAILABLE"
	CodeIllegalTransition  = "ILLEGAL_TRANSITION"
	CodeDispatchConflict   = "DISPATCH_CONFLICT"
)

// Domain error constructors

// InvalidRideRequest rejects a booking before dispatch
func InvalidRideRequest(message string, err error) *AppError {
	return &AppError{Code: CodeInvalidRideRequest, Message: message, Status: http.StatusBadRequest, Err: err}
}

// RiderNotFound reports a missing rider
func RiderNotFound(riderID string) *AppError {
	return &AppError{Code: CodeRiderNotFound, Message: fmt.Sprintf("Rider %s not found", riderID), Status: http.StatusNotFound}
}

// DriverNotFound reports a missing driver
func DriverNotFound(driverID string) *AppError {
	return &AppError{Code: CodeDriverNotFound, Message: fmt.Sprintf("Driver %s not found", driverID), Status: http.StatusNotFound}
}

// RideNotFound reports a missing ride
func RideNotFound(rideID string) *AppError {
	return &AppError{Code: CodeRideNotFound, Message: fmt.Sprintf("Ride %s not found", rideID), Status: http.StatusNotFound}
}

// NoDriverAvailable reports that dispatch found no eligible driver
func NoDriverAvailable() *AppError {
	return &AppError{
		Code:    CodeNoDriverAvailable,
		Message: "No drivers available in your area. Please try again later",
		Status:  http.StatusServiceUnavailable,
	}
}

// IllegalTransition reports a lifecycle move that is not on the state machine
func IllegalTransition(message string) *AppError {
	return &AppError{Code: CodeIllegalTransition, Message: message, Status: http.StatusConflict}
}

// DispatchConflict reports a persistence conflict inside dispatch. Retriable.
func DispatchConflict(message string, err error) *AppError {
	return &AppError{Code: CodeDispatchConflict, Message: message, Status: http.StatusConflict, Err: err}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
