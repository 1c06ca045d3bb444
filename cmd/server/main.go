package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"citylift/internal/app"
	"citylift/internal/auth"
	"citylift/internal/config"
	"citylift/internal/events"
	"citylift/internal/geocode"
	"citylift/internal/handler"
	internalRedis "citylift/internal/redis"
	"citylift/internal/repository/postgres"
	"citylift/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Redis is optional; without it matching is uncached and activation is unlocked.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// RabbitMQ is optional; without it events are dropped.
	var publisher service.EventPublisher = service.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, ch, err := app.NewRabbitMQ(ctx, cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer conn.Close()
		defer ch.Close()
		publisher = events.NewPublisher(ch, cfg.RabbitMQ.Exchange)
		log.Printf("Publishing events to exchange %s", cfg.RabbitMQ.Exchange)
	}

	// Geocoding is optional; without it fare quotes need distance_km.
	var geocoder service.Geocoder
	if cfg.Maps.APIKey != "" {
		g, err := geocode.NewGoogleGeocoder(cfg.Maps.APIKey, cfg.Maps.Region)
		if err != nil {
			log.Fatalf("failed to create geocoder: %v", err)
		}
		geocoder = g
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, publisher, geocoder, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
	geocoder service.Geocoder,
	nrApp *newrelic.Application,
	cfg *config.Config,
) *http.Server {
	// Redis stores stay untyped nil when Redis is disabled.
	var lockStore internalRedis.LockStoreInterface
	var cacheStore internalRedis.NearbyCacheInterface
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
		cacheStore = internalRedis.NewCacheStore(redisClient, cfg.Matching.CacheTTL)
	}

	// Initialize repositories.
	repos := postgres.NewRepositories(db)
	transactor := postgres.NewTransactor(db)

	policy := service.BookingPolicy{
		StrictTransitions:       cfg.Booking.StrictTransitions,
		RequireAvailableVehicle: cfg.Booking.RequireAvailableVehicle,
	}

	// Initialize services.
	vehicleService := service.NewVehicleService(repos.Vehicles, repos.Users, cacheStore)
	activationService := service.NewActivationService(repos.Activations, repos.Vehicles, lockStore, cacheStore, publisher)
	matchingService := service.NewMatchingService(repos.Activations, cacheStore, service.MatchingOptions{
		DefaultRadiusKm: cfg.Matching.DefaultRadiusKm,
		ExactRadius:     cfg.Matching.ExactRadius,
	})
	fareService := service.NewFareService(geocoder)
	rideService := service.NewRideService(transactor, repos.Rides, repos.Vehicles, cacheStore, publisher, policy)
	paymentService := service.NewPaymentService(transactor, repos.Rides, repos.Payments, cacheStore, publisher, policy)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		VehicleHandler: handler.NewVehicleHandler(vehicleService),
		DriverHandler:  handler.NewDriverHandler(activationService, matchingService),
		FareHandler:    handler.NewFareHandler(fareService),
		RideHandler:    handler.NewRideHandler(rideService),
		PaymentHandler: handler.NewPaymentHandler(paymentService),
		UserHandler:    handler.NewUserHandler(repos.Users),
		TokenVerifier:  auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
