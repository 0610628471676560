// Package postgres implements the domain repositories on PostgreSQL.
// Put is an upsert so dispatch can treat create and update uniformly,
// and compensating writes are plain Puts of the prior snapshot.
package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/pkg/errors"
)

// Schema for the three tables. Applied at startup when migrations run.
const Schema = `
CREATE TABLE IF NOT EXISTS drivers (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	phone          TEXT NOT NULL DEFAULT '',
	vehicle_type   TEXT NOT NULL,
	license_plate  TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	latitude       DOUBLE PRECISION NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	total_earnings DOUBLE PRECISION NOT NULL DEFAULT 0,
	rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_rides    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_drivers_status ON drivers(status);

CREATE TABLE IF NOT EXISTS riders (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	phone    TEXT NOT NULL DEFAULT '',
	home_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
	home_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
	rating   DOUBLE PRECISION NOT NULL DEFAULT 0,
	ride_ids TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS rides (
	id               TEXT PRIMARY KEY,
	seq              BIGSERIAL,
	rider_id         TEXT NOT NULL,
	driver_id        TEXT,
	category         TEXT NOT NULL,
	status           TEXT NOT NULL,
	start_lat        DOUBLE PRECISION NOT NULL,
	start_lng        DOUBLE PRECISION NOT NULL,
	end_lat          DOUBLE PRECISION NOT NULL,
	end_lng          DOUBLE PRECISION NOT NULL,
	distance_km      DOUBLE PRECISION NOT NULL,
	fare             DOUBLE PRECISION NOT NULL,
	surge_multiplier DOUBLE PRECISION NOT NULL,
	requested_at     TIMESTAMPTZ NOT NULL,
	started_at       TIMESTAMPTZ,
	completed_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_rides_status ON rides(status);
CREATE INDEX IF NOT EXISTS idx_rides_rider ON rides(rider_id);
CREATE INDEX IF NOT EXISTS idx_rides_driver ON rides(driver_id);
`

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return errors.Internal("Failed to apply database schema", err)
	}
	return nil
}

// DriverRepository is the PostgreSQL driver store
type DriverRepository struct {
	db *sql.DB
}

// NewDriverRepository creates a PostgreSQL driver repository
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) Put(ctx context.Context, d *driver.Driver) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drivers (id, name, phone, vehicle_type, license_plate, status,
		                     latitude, longitude, total_earnings, rating, total_rides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name           = EXCLUDED.name,
			phone          = EXCLUDED.phone,
			vehicle_type   = EXCLUDED.vehicle_type,
			license_plate  = EXCLUDED.license_plate,
			status         = EXCLUDED.status,
			latitude       = EXCLUDED.latitude,
			longitude      = EXCLUDED.longitude,
			total_earnings = EXCLUDED.total_earnings,
			rating         = EXCLUDED.rating,
			total_rides    = EXCLUDED.total_rides
	`, d.ID, d.Name, d.Phone, string(d.VehicleType), d.LicensePlate, string(d.Status),
		d.Location.Latitude, d.Location.Longitude, d.TotalEarnings, d.Rating, d.TotalRides)
	if err != nil {
		return errors.Internal("Failed to save driver", err)
	}
	return nil
}

func (r *DriverRepository) Get(ctx context.Context, id string) (*driver.Driver, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, vehicle_type, license_plate, status,
		       latitude, longitude, total_earnings, rating, total_rides
		FROM drivers
		WHERE id = $1
	`, id)

	d, err := scanDriver(row)
	if err == sql.ErrNoRows {
		return nil, errors.DriverNotFound(id)
	}
	if err != nil {
		return nil, errors.Internal("Failed to load driver", err)
	}
	return d, nil
}

func (r *DriverRepository) ListByStatus(ctx context.Context, status driver.Status) ([]*driver.Driver, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, vehicle_type, license_plate, status,
		       latitude, longitude, total_earnings, rating, total_rides
		FROM drivers
		WHERE status = $1
		ORDER BY id
	`, string(status))
	if err != nil {
		return nil, errors.Internal("Failed to list drivers", err)
	}
	defer rows.Close()
	return collectDrivers(rows)
}

func (r *DriverRepository) ListAll(ctx context.Context) ([]*driver.Driver, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, vehicle_type, license_plate, status,
		       latitude, longitude, total_earnings, rating, total_rides
		FROM drivers
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.Internal("Failed to list drivers", err)
	}
	defer rows.Close()
	return collectDrivers(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDriver(row rowScanner) (*driver.Driver, error) {
	var d driver.Driver
	var vt, status string
	err := row.Scan(&d.ID, &d.Name, &d.Phone, &vt, &d.LicensePlate, &status,
		&d.Location.Latitude, &d.Location.Longitude, &d.TotalEarnings, &d.Rating, &d.TotalRides)
	if err != nil {
		return nil, err
	}
	d.VehicleType = driver.VehicleType(vt)
	d.Status = driver.Status(status)
	return &d, nil
}

func collectDrivers(rows *sql.Rows) ([]*driver.Driver, error) {
	out := []*driver.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, errors.Internal("Failed to scan driver", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to read drivers", err)
	}
	return out, nil
}

// RideRepository is the PostgreSQL ride store. ListAll preserves
// insertion order via the seq column.
type RideRepository struct {
	db *sql.DB
}

// NewRideRepository creates a PostgreSQL ride repository
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

const rideColumns = `id, rider_id, driver_id, category, status,
	start_lat, start_lng, end_lat, end_lng,
	distance_km, fare, surge_multiplier,
	requested_at, started_at, completed_at`

func (r *RideRepository) Put(ctx context.Context, rd *ride.Ride) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rides (id, rider_id, driver_id, category, status,
		                   start_lat, start_lng, end_lat, end_lng,
		                   distance_km, fare, surge_multiplier,
		                   requested_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			driver_id        = EXCLUDED.driver_id,
			status           = EXCLUDED.status,
			fare             = EXCLUDED.fare,
			surge_multiplier = EXCLUDED.surge_multiplier,
			started_at       = EXCLUDED.started_at,
			completed_at     = EXCLUDED.completed_at
	`, rd.ID, rd.RiderID, rd.DriverID, string(rd.Category), string(rd.Status),
		rd.Start.Latitude, rd.Start.Longitude, rd.End.Latitude, rd.End.Longitude,
		rd.DistanceKM, rd.Fare, rd.SurgeMultiplier,
		rd.RequestedAt, rd.StartedAt, rd.CompletedAt)
	if err != nil {
		return errors.Internal("Failed to save ride", err)
	}
	return nil
}

func (r *RideRepository) Get(ctx context.Context, id string) (*ride.Ride, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE id = $1
	`, id)

	rd, err := scanRide(row)
	if err == sql.ErrNoRows {
		return nil, errors.RideNotFound(id)
	}
	if err != nil {
		return nil, errors.Internal("Failed to load ride", err)
	}
	return rd, nil
}

func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*ride.Ride, error) {
	return r.list(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE rider_id = $1
		ORDER BY seq
	`, riderID)
}

func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*ride.Ride, error) {
	return r.list(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE driver_id = $1
		ORDER BY seq
	`, driverID)
}

func (r *RideRepository) ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	return r.list(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status = $1
		ORDER BY seq
	`, string(status))
}

func (r *RideRepository) CountByStatus(ctx context.Context, status ride.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rides WHERE status = $1
	`, string(status)).Scan(&n)
	if err != nil {
		return 0, errors.Internal("Failed to count rides", err)
	}
	return n, nil
}

func (r *RideRepository) ListAll(ctx context.Context) ([]*ride.Ride, error) {
	return r.list(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		ORDER BY seq
	`)
}

func (r *RideRepository) list(ctx context.Context, query string, args ...interface{}) ([]*ride.Ride, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Internal("Failed to list rides", err)
	}
	defer rows.Close()

	out := []*ride.Ride{}
	for rows.Next() {
		rd, err := scanRide(rows)
		if err != nil {
			return nil, errors.Internal("Failed to scan ride", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to read rides", err)
	}
	return out, nil
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var rd ride.Ride
	var category, status string
	err := row.Scan(&rd.ID, &rd.RiderID, &rd.DriverID, &category, &status,
		&rd.Start.Latitude, &rd.Start.Longitude, &rd.End.Latitude, &rd.End.Longitude,
		&rd.DistanceKM, &rd.Fare, &rd.SurgeMultiplier,
		&rd.RequestedAt, &rd.StartedAt, &rd.CompletedAt)
	if err != nil {
		return nil, err
	}
	rd.Category = ride.Category(category)
	rd.Status = ride.Status(status)
	return &rd, nil
}

// RiderRepository is the PostgreSQL rider store
type RiderRepository struct {
	db *sql.DB
}

// NewRiderRepository creates a PostgreSQL rider repository
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

func (r *RiderRepository) Put(ctx context.Context, rd *rider.Rider) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO riders (id, name, phone, home_lat, home_lng, rating, ride_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name     = EXCLUDED.name,
			phone    = EXCLUDED.phone,
			home_lat = EXCLUDED.home_lat,
			home_lng = EXCLUDED.home_lng,
			rating   = EXCLUDED.rating,
			ride_ids = EXCLUDED.ride_ids
	`, rd.ID, rd.Name, rd.Phone, rd.Home.Latitude, rd.Home.Longitude, rd.Rating,
		pq.Array(rd.RideIDs))
	if err != nil {
		return errors.Internal("Failed to save rider", err)
	}
	return nil
}

func (r *RiderRepository) Get(ctx context.Context, id string) (*rider.Rider, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, home_lat, home_lng, rating, ride_ids
		FROM riders
		WHERE id = $1
	`, id)

	rd, err := scanRider(row)
	if err == sql.ErrNoRows {
		return nil, errors.RiderNotFound(id)
	}
	if err != nil {
		return nil, errors.Internal("Failed to load rider", err)
	}
	return rd, nil
}

func (r *RiderRepository) ListAll(ctx context.Context) ([]*rider.Rider, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, home_lat, home_lng, rating, ride_ids
		FROM riders
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.Internal("Failed to list riders", err)
	}
	defer rows.Close()

	out := []*rider.Rider{}
	for rows.Next() {
		rd, err := scanRider(rows)
		if err != nil {
			return nil, errors.Internal("Failed to scan rider", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to read riders", err)
	}
	return out, nil
}

func scanRider(row rowScanner) (*rider.Rider, error) {
	var rd rider.Rider
	var rideIDs pq.StringArray
	err := row.Scan(&rd.ID, &rd.Name, &rd.Phone, &rd.Home.Latitude, &rd.Home.Longitude,
		&rd.Rating, &rideIDs)
	if err != nil {
		return nil, err
	}
	rd.RideIDs = []string(rideIDs)
	return &rd, nil
}

var (
	_ driver.Repository = (*DriverRepository)(nil)
	_ ride.Repository   = (*RideRepository)(nil)
	_ rider.Repository  = (*RiderRepository)(nil)
)
