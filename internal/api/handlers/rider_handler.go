package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/geo"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
)

// RegisterRider handles POST /api/riders
func (h *Handlers) RegisterRider(c *gin.Context) {
	var req dto.RegisterRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	r := &rider.Rider{
		ID:     newRiderID(),
		Name:   req.Name,
		Phone:  req.Phone,
		Home:   geo.Point{Latitude: req.Latitude, Longitude: req.Longitude},
		Rating: 5.0,
	}
	if err := r.IsValid(); err != nil {
		h.respondError(c, errors.BadRequest(err.Error(), err))
		return
	}

	if err := h.Riders.Put(c.Request.Context(), r); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("Rider registered", logger.String("rider_id", r.ID))
	c.JSON(http.StatusCreated, dto.NewRiderResponse(r))
}

// GetRider handles GET /api/riders/:id
func (h *Handlers) GetRider(c *gin.Context) {
	r, err := h.Riders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRiderResponse(r))
}

// GetRiderRides handles GET /api/riders/:id/rides
func (h *Handlers) GetRiderRides(c *gin.Context) {
	ctx := c.Request.Context()
	riderID := c.Param("id")

	if _, err := h.Riders.Get(ctx, riderID); err != nil {
		h.respondError(c, err)
		return
	}
	rides, err := h.Rides.ListByRider(ctx, riderID)
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

func newRiderID() string {
	return fmt.Sprintf("RDR-%s", strings.ToUpper(uuid.NewString()[:8]))
}
