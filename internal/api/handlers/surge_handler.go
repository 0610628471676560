package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
)

// GetSurge handles GET /api/surge and returns the multiplier a booking
// made right now would be stamped with.
func (h *Handlers) GetSurge(c *gin.Context) {
	ctx := c.Request.Context()

	active := 0
	for _, st := range []ride.Status{ride.StatusRequested, ride.StatusAssigned, ride.StatusStarted} {
		n, err := h.Rides.CountByStatus(ctx, st)
		if err != nil {
			h.respondError(c, err)
			return
		}
		active += n
	}

	c.JSON(http.StatusOK, gin.H{
		"multiplier":   h.Surge.Estimate(ctx, active),
		"active_rides": active,
	})
}

// SetSurgeOverride handles PUT /api/surge/override
func (h *Handlers) SetSurgeOverride(c *gin.Context) {
	if h.Override == nil {
		h.respondError(c, errors.ServiceUnavailable("Surge override requires Redis", nil))
		return
	}

	var req dto.SurgeOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	if err := h.Override.Set(c.Request.Context(), req.Multiplier); err != nil {
		h.respondError(c, errors.ServiceUnavailable("Failed to store surge override", err))
		return
	}

	h.Logger.Info("Surge override set", logger.Float64("multiplier", req.Multiplier))
	c.JSON(http.StatusOK, gin.H{"multiplier": req.Multiplier})
}

// ClearSurgeOverride handles DELETE /api/surge/override
func (h *Handlers) ClearSurgeOverride(c *gin.Context) {
	if h.Override == nil {
		h.respondError(c, errors.ServiceUnavailable("Surge override requires Redis", nil))
		return
	}

	if err := h.Override.Clear(c.Request.Context()); err != nil {
		h.respondError(c, errors.ServiceUnavailable("Failed to clear surge override", err))
		return
	}

	h.Logger.Info("Surge override cleared")
	c.JSON(http.StatusOK, gin.H{"message": "Surge override cleared"})
}
