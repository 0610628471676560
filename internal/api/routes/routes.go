package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"github.com/ridesync/ridesync/internal/api/handlers"
	"github.com/ridesync/ridesync/pkg/monitoring"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, monitor *monitoring.NewRelicApp) {
	if monitor != nil && monitor.IsEnabled() {
		r.Use(nrgin.Middleware(monitor.Application))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		// WebSocket connection
		api.GET("/ws", h.HandleWebSocket)

		// Ride endpoints
		rides := api.Group("/rides")
		{
			rides.POST("/book", h.BookRide)
			rides.GET("/:id", h.GetRide)
			rides.POST("/:id/start", h.StartRide)
			rides.POST("/:id/complete", h.CompleteRide)
			rides.POST("/:id/cancel", h.CancelRide)
		}

		// Driver endpoints
		drivers := api.Group("/drivers")
		{
			drivers.POST("", h.RegisterDriver)
			drivers.GET("", h.ListDrivers)
			drivers.GET("/:id", h.GetDriver)
		}

		// Rider endpoints
		riders := api.Group("/riders")
		{
			riders.POST("", h.RegisterRider)
			riders.GET("/:id", h.GetRider)
			riders.GET("/:id/rides", h.GetRiderRides)
		}

		// Analytics endpoints
		analytics := api.Group("/analytics")
		{
			analytics.GET("/dashboard", h.GetDashboard)
			analytics.GET("/top-drivers", h.GetTopDrivers)
			analytics.GET("/drivers/:id/earnings", h.GetDriverEarnings)
			analytics.GET("/rides", h.FilterRides)
			analytics.GET("/average-fare", h.GetAverageFareByCategory)
		}

		// Surge endpoints
		surge := api.Group("/surge")
		{
			surge.GET("", h.GetSurge)
			surge.PUT("/override", h.SetSurgeOverride)
			surge.DELETE("/override", h.ClearSurgeOverride)
		}
	}
}
