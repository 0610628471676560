package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/service/analytics"
	"github.com/ridesync/ridesync/pkg/errors"
)

// GetDashboard handles GET /api/analytics/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	d, err := h.Analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetTopDrivers handles GET /api/analytics/top-drivers
func (h *Handlers) GetTopDrivers(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(c, errors.BadRequest("limit must be a positive integer", err))
			return
		}
		limit = n
	}

	rows, err := h.Analytics.TopDriversByEarnings(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": rows, "count": len(rows)})
}

// GetDriverEarnings handles GET /api/analytics/drivers/:id/earnings
func (h *Handlers) GetDriverEarnings(c *gin.Context) {
	row, err := h.Analytics.DriverEarningsFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// FilterRides handles GET /api/analytics/rides with optional status and
// category query filters.
func (h *Handlers) FilterRides(c *gin.Context) {
	var f analytics.Filter

	if raw := c.Query("status"); raw != "" {
		status := ride.Status(raw)
		if !status.IsValid() {
			h.respondError(c, errors.BadRequest("Unknown ride status: "+raw, nil))
			return
		}
		f.Status = status
	}
	if raw := c.Query("category"); raw != "" {
		category, ok := ride.ParseCategory(raw)
		if !ok {
			h.respondError(c, errors.BadRequest("Unknown ride category: "+raw, nil))
			return
		}
		f.Category = category
	}

	rides, err := h.Analytics.FilterRides(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]dto.RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, h.rideResponse(c, r, ""))
	}
	c.JSON(http.StatusOK, gin.H{"rides": out, "count": len(out)})
}

// GetAverageFareByCategory handles GET /api/analytics/average-fare
func (h *Handlers) GetAverageFareByCategory(c *gin.Context) {
	avg, err := h.Analytics.AverageFareByCategory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_fare_by_category": avg})
}
