package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/service/dispatch"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
)

// BookRide handles POST /api/rides/book
func (h *Handlers) BookRide(c *gin.Context) {
	var req dto.BookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	category, ok := ride.ParseCategory(req.Category)
	if !ok {
		h.respondError(c, errors.InvalidRideRequest("Unknown ride category: "+req.Category, nil))
		return
	}

	started := time.Now()
	r, err := h.Dispatch.Book(c.Request.Context(), dispatch.BookRequest{
		RiderID:  req.RiderID,
		Start:    req.Start(),
		End:      req.End(),
		Category: category,
	})
	if err != nil {
		if errors.HasCode(err, errors.CodeNoDriverAvailable) {
			h.Monitor.RecordNoDriverAvailable(string(category))
		}
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideBooked(r.ID, string(r.Category), r.Fare, r.SurgeMultiplier)
	h.Monitor.RecordSurgeMultiplier(r.SurgeMultiplier)
	h.Monitor.RecordDispatchLatency(float64(time.Since(started).Milliseconds()))

	c.JSON(http.StatusCreated, h.rideResponse(c, r, "Driver assigned, your ride is on the way"))
}

// GetRide handles GET /api/rides/:id
func (h *Handlers) GetRide(c *gin.Context) {
	r, err := h.Dispatch.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.rideResponse(c, r, ""))
}

// StartRide handles POST /api/rides/:id/start
func (h *Handlers) StartRide(c *gin.Context) {
	r, err := h.Dispatch.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.rideResponse(c, r, "Ride started"))
}

// CompleteRide handles POST /api/rides/:id/complete
func (h *Handlers) CompleteRide(c *gin.Context) {
	r, err := h.Dispatch.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideCompleted(r.ID, r.Fare, r.DistanceKM)

	c.JSON(http.StatusOK, h.rideResponse(c, r, "Ride completed, thanks for riding with us"))
}

// CancelRide handles POST /api/rides/:id/cancel
func (h *Handlers) CancelRide(c *gin.Context) {
	r, err := h.Dispatch.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideCancelled(r.ID)
	h.Logger.Info("Ride cancelled via API", logger.String("ride_id", r.ID))

	c.JSON(http.StatusOK, h.rideResponse(c, r, "Ride cancelled"))
}
