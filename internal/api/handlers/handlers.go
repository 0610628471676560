package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ridesync/ridesync/internal/api/dto"
	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/internal/service/analytics"
	"github.com/ridesync/ridesync/internal/service/dispatch"
	"github.com/ridesync/ridesync/internal/service/surge"
	"github.com/ridesync/ridesync/pkg/errors"
	"github.com/ridesync/ridesync/pkg/logger"
	"github.com/ridesync/ridesync/pkg/monitoring"
	"github.com/ridesync/ridesync/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Dispatch  *dispatch.Service
	Analytics *analytics.Service
	Rides     ride.Repository
	Drivers   driver.Repository
	Riders    rider.Repository
	Surge     *surge.Estimator
	Override  *surge.RedisOverride // nil when Redis is unavailable
	Hub       *websocket.Hub
	Logger    *logger.Logger
	Monitor   *monitoring.NewRelicApp
}

// respondError maps an application error onto the uniform error body
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			logger.String("path", c.Request.URL.Path),
			logger.Err(err),
		)
	}

	c.JSON(appErr.Status, dto.ErrorResponse{
		Status:    appErr.Status,
		Error:     appErr.Code,
		Message:   appErr.Message,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}

// respondBindError wraps gin binding failures as invalid requests with
// a per-field breakdown when the validator produced one.
func (h *Handlers) respondBindError(c *gin.Context, err error) {
	body := dto.ErrorResponse{
		Status:    http.StatusBadRequest,
		Error:     errors.CodeInvalidRideRequest,
		Message:   "Invalid request payload",
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		body.ValidationErrors = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			body.ValidationErrors[field] = "failed validation on '" + fe.Tag() + "'"
		}
	}

	c.JSON(http.StatusBadRequest, body)
}

// rideResponse builds the API view of a ride, attaching the assigned
// driver's name and vehicle when the lookup succeeds.
func (h *Handlers) rideResponse(c *gin.Context, r *ride.Ride, message string) dto.RideResponse {
	resp := dto.NewRideResponse(r, message)
	if r.DriverID == nil {
		return resp
	}
	d, err := h.Drivers.Get(c.Request.Context(), *r.DriverID)
	if err != nil {
		h.Logger.Warn("Driver lookup for response failed",
			logger.String("driver_id", *r.DriverID), logger.Err(err))
		return resp
	}
	return resp.WithDriver(d)
}
