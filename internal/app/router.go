package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"citylift/internal/domain"
	"citylift/internal/handler"
	"citylift/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	VehicleHandler *handler.VehicleHandler
	DriverHandler  *handler.DriverHandler
	FareHandler    *handler.FareHandler
	RideHandler    *handler.RideHandler
	PaymentHandler *handler.PaymentHandler
	UserHandler    *handler.UserHandler
	TokenVerifier  middleware.TokenVerifier
	RedisClient    *redis.Client // Optional: nil disables idempotent replay
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.RequireRole(domain.UserRoleAdmin)
	driver := middleware.RequireRole(domain.UserRoleDriver)
	fleet := middleware.RequireRole(domain.UserRoleAdmin, domain.UserRoleDriver)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.Use(middleware.Authenticate(deps.TokenVerifier))
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.GET("/me", deps.UserHandler.Me)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", deps.VehicleHandler.List)
			vehicles.POST("", fleet, deps.VehicleHandler.Create)
			vehicles.GET("/assigned/:driverId", deps.VehicleHandler.GetAssigned)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
			vehicles.PUT("/:id", fleet, deps.VehicleHandler.Update)
			vehicles.PUT("/:id/assign", admin, deps.VehicleHandler.Assign)
			vehicles.DELETE("/:id", admin, deps.VehicleHandler.Delete)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/activate", driver, deps.DriverHandler.Activate)
			drivers.GET("/activate", driver, deps.DriverHandler.GetActivation)
			drivers.DELETE("/activate", driver, deps.DriverHandler.Deactivate)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
		}

		// Fare routes.
		v1.POST("/fares/estimate", deps.FareHandler.Estimate)

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", admin, deps.RideHandler.GetAll)
			rides.GET("/my", deps.RideHandler.GetMine)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.PUT("/:id/status", fleet, deps.RideHandler.UpdateStatus)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.RecordPayment)
			payments.GET("/user/:userId", deps.PaymentHandler.ListByUser)
			payments.GET("/ride/:rideId", deps.PaymentHandler.ListByRide)
		}
	}

	return router
}
