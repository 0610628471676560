package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/internal/service/analytics"
	"github.com/ridesync/ridesync/internal/service/dispatch"
	"github.com/ridesync/ridesync/internal/service/surge"
	"github.com/ridesync/ridesync/internal/storage/memory"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
	"github.com/ridesync/ridesync/pkg/monitoring"
)

func newTestRouter(t *testing.T, drivers ...*driver.Driver) (*gin.Engine, *Handlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	rideRepo := memory.NewRideRepository()
	driverRepo := memory.NewDriverRepository()
	riderRepo := memory.NewRiderRepository()

	for _, d := range drivers {
		require.NoError(t, driverRepo.Put(ctx, d))
	}
	require.NoError(t, riderRepo.Put(ctx, &rider.Rider{
		ID:   "RDR-001",
		Name: "Alice Walker",
		Home: geo.Point{Latitude: 12.97, Longitude: 77.59},
	}))

	clock := func() time.Time { return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC) }
	est := surge.New(surge.Config{
		Demand: surge.FixedDemand(0.2),
		Clock:  clock,
		Logger: logger.NewNop(),
	})
	monitor, err := monitoring.New(monitoring.Config{})
	require.NoError(t, err)

	h := &Handlers{
		Dispatch: dispatch.New(dispatch.Config{
			Rides:   rideRepo,
			Drivers: driverRepo,
			Riders:  riderRepo,
			Surge:   est,
			Logger:  logger.NewNop(),
			Clock:   clock,
		}),
		Analytics: analytics.New(rideRepo, driverRepo),
		Rides:     rideRepo,
		Drivers:   driverRepo,
		Riders:    riderRepo,
		Surge:     est,
		Logger:    logger.NewNop(),
		Monitor:   monitor,
	}

	r := gin.New()
	r.POST("/api/rides/book", h.BookRide)
	r.GET("/api/rides/:id", h.GetRide)
	r.POST("/api/rides/:id/start", h.StartRide)
	r.POST("/api/rides/:id/complete", h.CompleteRide)
	r.POST("/api/rides/:id/cancel", h.CancelRide)
	r.POST("/api/drivers", h.RegisterDriver)
	r.GET("/api/drivers", h.ListDrivers)
	r.POST("/api/riders", h.RegisterRider)
	r.GET("/api/riders/:id/rides", h.GetRiderRides)
	r.GET("/api/analytics/dashboard", h.GetDashboard)
	return r, h
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookBody(category string) map[string]interface{} {
	return map[string]interface{}{
		"rider_id":        "RDR-001",
		"start_latitude":  12.9716,
		"start_longitude": 77.5946,
		"end_latitude":    13.0827,
		"end_longitude":   77.5877,
		"category":        category,
	}
}

func sedanAt(id string, p geo.Point) *driver.Driver {
	return &driver.Driver{
		ID:           id,
		Name:         "Test Driver",
		Phone:        "+1-555-0100",
		VehicleType:  driver.VehicleSedan,
		LicensePlate: "TST-0001",
		Status:       driver.StatusAvailable,
		Location:     p,
		Rating:       4.8,
	}
}

func TestBookRideEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, sedanAt("DRV-001", geo.Point{Latitude: 12.9750, Longitude: 77.5950}))

	w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("standard"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "assigned", resp.Status)
	require.NotNil(t, resp.DriverID)
	assert.Equal(t, "DRV-001", *resp.DriverID)
	assert.Equal(t, 1.2, resp.SurgeMultiplier)
	assert.Greater(t, resp.Fare, 0.0)
	assert.NotNil(t, resp.EstimatedArrival)
	assert.NotEmpty(t, resp.Message)
	assert.Nil(t, resp.StartedAt)
	require.NotNil(t, resp.DriverName)
	assert.Equal(t, "Test Driver", *resp.DriverName)
	require.NotNil(t, resp.Vehicle)
	assert.Equal(t, "sedan", *resp.Vehicle)
}

func TestBookRideNoDriver(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("standard"))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeNoDriverAvailable, resp.Error)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "/api/rides/book", resp.Path)
}

func TestBookRideValidation(t *testing.T) {
	r, _ := newTestRouter(t, sedanAt("DRV-001", geo.Point{Latitude: 12.9750, Longitude: 77.5950}))

	t.Run("bad category", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("helicopter"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		body := bookBody("standard")
		body["start_latitude"] = 91.0
		w := doJSON(t, r, http.MethodPost, "/api/rides/book", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.ValidationErrors, "startlatitude")
	})

	t.Run("unknown rider", func(t *testing.T) {
		body := bookBody("standard")
		body["rider_id"] = "RDR-999"
		w := doJSON(t, r, http.MethodPost, "/api/rides/book", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRideLifecycleEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, sedanAt("DRV-001", geo.Point{Latitude: 12.9750, Longitude: 77.5950}))

	w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("standard"))
	require.Equal(t, http.StatusCreated, w.Code)
	var booked dto.RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/rides/%s/start", booked.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/rides/%s/complete", booked.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var completed dto.RideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	assert.Equal(t, "completed", completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Terminal rides reject further transitions.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/rides/%s/cancel", booked.ID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, errors.CodeIllegalTransition, errResp.Error)
}

func TestGetRideNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/rides/RIDE-MISSING", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeRideNotFound, resp.Error)
}

func TestRegisterDriverEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/drivers", map[string]interface{}{
		"name":          "New Driver",
		"phone":         "+1-555-0199",
		"vehicle_type":  "suv",
		"license_plate": "NEW-0001",
		"latitude":      12.97,
		"longitude":     77.59,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.DriverResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "available", resp.Status)
	assert.Equal(t, "suv", resp.VehicleType)

	// The new driver shows up in listings.
	w = doJSON(t, r, http.MethodGet, "/api/drivers?status=available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestRegisterDriverRejectsBadVehicle(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/drivers", map[string]interface{}{
		"name":          "New Driver",
		"phone":         "+1-555-0199",
		"vehicle_type":  "tractor",
		"license_plate": "NEW-0001",
		"latitude":      12.97,
		"longitude":     77.59,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRiderRidesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, sedanAt("DRV-001", geo.Point{Latitude: 12.9750, Longitude: 77.5950}))

	w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("standard"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/riders/RDR-001/rides", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestDashboardEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, sedanAt("DRV-001", geo.Point{Latitude: 12.9750, Longitude: 77.5950}))

	w := doJSON(t, r, http.MethodPost, "/api/rides/book", bookBody("standard"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var d analytics.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, 1, d.TotalRides)
	assert.Equal(t, 1, d.ActiveRides)
	assert.Equal(t, 0.0, d.TotalRevenue)
}
