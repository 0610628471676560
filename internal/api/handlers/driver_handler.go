package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
)

// RegisterDriver handles POST /api/drivers
func (h *Handlers) RegisterDriver(c *gin.Context) {
	var req dto.RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	vt, ok := driver.ParseVehicleType(req.VehicleType)
	if !ok {
		h.respondError(c, errors.BadRequest("Unknown vehicle type: "+req.VehicleType, nil))
		return
	}

	d := &driver.Driver{
		ID:           newDriverID(),
		Name:         req.Name,
		Phone:        req.Phone,
		VehicleType:  vt,
		LicensePlate: req.LicensePlate,
		Status:       driver.StatusAvailable,
		Location:     geo.Point{Latitude: req.Latitude, Longitude: req.Longitude},
		Rating:       5.0,
	}
	if err := d.IsValid(); err != nil {
		h.respondError(c, errors.BadRequest(err.Error(), err))
		return
	}

	if err := h.Drivers.Put(c.Request.Context(), d); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Driver registered",
		logger.String("driver_id", d.ID),
		logger.String("vehicle_type", string(d.VehicleType)),
	)
	c.JSON(http.StatusCreated, dto.NewDriverResponse(d))
}

// GetDriver handles GET /api/drivers/:id
func (h *Handlers) GetDriver(c *gin.Context) {
	d, err := h.Drivers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDriverResponse(d))
}

// ListDrivers handles GET /api/drivers, optionally filtered by status
func (h *Handlers) ListDrivers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		drivers []*driver.Driver
		err     error
	)
	if raw := c.Query("status"); raw != "" {
		status := driver.Status(raw)
		if !status.IsValid() {
			h.respondError(c, errors.BadRequest("Unknown driver status: "+raw, nil))
			return
		}
		drivers, err = h.Drivers.ListByStatus(ctx, status)
	} else {
		drivers, err = h.Drivers.ListAll(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]dto.DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, dto.NewDriverResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"drivers": out, "count": len(out)})
}

func newDriverID() string {
	return fmt.Sprintf("DRV-%s", strings.ToUpper(uuid.NewString()[:8]))
}
