package driver

import "context"

// Repository is the persistence contract for drivers
type Repository interface {
	// Put creates or replaces a driver
	Put(ctx context.Context, d *Driver) error

	// Get retrieves a driver by id
	Get(ctx context.Context, id string) (*Driver, error)

	// ListByStatus retrieves drivers in the given status
	ListByStatus(ctx context.Context, status Status) ([]*Driver, error)

	// ListAll retrieves every driver
	ListAll(ctx context.Context) ([]*Driver, error)
}
