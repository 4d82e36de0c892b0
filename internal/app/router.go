package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/irkartik/driver-service/internal/handler"
	"github.com/irkartik/driver-service/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	DriverHandler *handler.DriverHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.List)
			drivers.POST("", deps.DriverHandler.Create)

			// Collection-level reads.
			drivers.GET("/active", deps.DriverHandler.ListActive)
			drivers.GET("/inactive", deps.DriverHandler.ListInactive)
			drivers.GET("/by_vehicle_type", deps.DriverHandler.ListByVehicleType)
			drivers.GET("/stats", deps.DriverHandler.Stats)

			// Single-driver operations.
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.PUT("/:id", deps.DriverHandler.Update)
			drivers.PATCH("/:id", deps.DriverHandler.PartialUpdate)
			drivers.DELETE("/:id", deps.DriverHandler.Delete)

			drivers.GET("/:id/details", deps.DriverHandler.Get)
			drivers.GET("/:id/status", deps.DriverHandler.Status)

			// Status actions accept POST and PATCH.
			drivers.POST("/:id/toggle_status", deps.DriverHandler.ToggleStatus)
			drivers.PATCH("/:id/toggle_status", deps.DriverHandler.ToggleStatus)
			drivers.POST("/:id/activate", deps.DriverHandler.Activate)
			drivers.PATCH("/:id/activate", deps.DriverHandler.Activate)
			drivers.POST("/:id/deactivate", deps.DriverHandler.Deactivate)
			drivers.PATCH("/:id/deactivate", deps.DriverHandler.Deactivate)
		}
	}

	return router
}
