package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom event helpers

// RecordRideBooked records a successful booking
func (nr *NewRelicApp) RecordRideBooked(rideID, category string, fare, surge float64) {
	nr.RecordCustomEvent("RideBooked", map[string]interface{}{
		"ride_id":          rideID,
		"category":         category,
		"fare":             fare,
		"surge_multiplier": surge,
		"timestamp":        time.Now().Unix(),
	})
}

// RecordRideCompleted records ride completion
func (nr *NewRelicApp) RecordRideCompleted(rideID string, fare, distance float64) {
	nr.RecordCustomEvent("RideCompleted", map[string]interface{}{
		"ride_id":  rideID,
		"fare":     fare,
		"distance": distance,
	})
}

// RecordRideCancelled records ride cancellation
func (nr *NewRelicApp) RecordRideCancelled(rideID string) {
	nr.RecordCustomEvent("RideCancelled", map[string]interface{}{
		"ride_id": rideID,
	})
}

// RecordSurgeMultiplier records the surge multiplier stamped on a booking
func (nr *NewRelicApp) RecordSurgeMultiplier(multiplier float64) {
	nr.RecordCustomMetric("custom/pricing/surge_multiplier", multiplier)
}

// RecordDispatchLatency records driver assignment latency
func (nr *NewRelicApp) RecordDispatchLatency(latencyMs float64) {
	nr.RecordCustomMetric("custom/dispatch/assignment_latency_ms", latencyMs)
}

// RecordNoDriverAvailable records a booking dispatch rejected for lack of drivers
func (nr *NewRelicApp) RecordNoDriverAvailable(category string) {
	nr.RecordCustomEvent("NoDriverAvailable", map[string]interface{}{
		"category": category,
	})
}
