package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ridesync/ridesync/internal/api/handlers"
	"github.com/ridesync/ridesync/internal/api/routes"
	"github.com/ridesync/ridesync/internal/config"
	"github.com/ridesync/ridesync/internal/domain/driver"
	"github.com/ridesync/ridesync/internal/domain/ride"
	"github.com/ridesync/ridesync/internal/domain/rider"
	"github.com/ridesync/ridesync/internal/seed"
	"github.com/ridesync/ridesync/internal/service/analytics"
	"github.com/ridesync/ridesync/internal/service/dispatch"
	"github.com/ridesync/ridesync/internal/service/ridelog"
	"github.com/ridesync/ridesync/internal/service/surge"
	"github.com/ridesync/ridesync/internal/storage/memory"
	"github.com/ridesync/ridesync/internal/storage/postgres"
	"github.com/ridesync/ridesync/pkg/cache"
	"github.com/ridesync/ridesync/pkg/database"
	"github.com/ridesync/ridesync/pkg/logger"
	"github.com/ridesync/ridesync/pkg/monitoring"
	"github.com/ridesync/ridesync/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting RideSync",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("storage", cfg.Storage.Backend),
	)

	// Initialize New Relic
	monitor, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		monitor, _ = monitoring.New(monitoring.Config{})
	} else if monitor.IsEnabled() {
		appLogger.Info("New Relic APM initialized", logger.String("app_name", cfg.NewRelic.AppName))
	} else {
		appLogger.Info("New Relic APM disabled")
	}
	defer monitor.Shutdown(10 * time.Second)

	// Initialize Redis. Surge overrides degrade to the heuristic when
	// Redis is down, so failures are non-fatal.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Warn("Redis unavailable, surge overrides disabled", logger.Err(err))
			redisClient = nil
		} else {
			appLogger.Info("Connected to Redis")
			defer cache.Close(redisClient)
		}
	}

	// Select the storage backend
	var (
		rideRepo   ride.Repository
		driverRepo driver.Repository
		riderRepo  rider.Repository
	)
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConnections,
			MaxIdle:  cfg.Database.MaxIdleConns,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
		}
		defer db.Close()

		if err := postgres.Migrate(context.Background(), db); err != nil {
			appLogger.Fatal("Failed to migrate database", logger.Err(err))
		}
		appLogger.Info("Connected to PostgreSQL")

		rideRepo = postgres.NewRideRepository(db)
		driverRepo = postgres.NewDriverRepository(db)
		riderRepo = postgres.NewRiderRepository(db)
	default:
		rideRepo = memory.NewRideRepository()
		driverRepo = memory.NewDriverRepository()
		riderRepo = memory.NewRiderRepository()
		appLogger.Info("Using in-memory storage")
	}

	// Seed demo data
	if cfg.Seed {
		if err := seed.Load(context.Background(), driverRepo, riderRepo, appLogger); err != nil {
			appLogger.Fatal("Failed to seed demo data", logger.Err(err))
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Initialize services
	var override *surge.RedisOverride
	surgeCfg := surge.Config{Logger: appLogger}
	if redisClient != nil {
		override = surge.NewRedisOverride(redisClient)
		surgeCfg.Override = override
	}
	surgeEstimator := surge.New(surgeCfg)

	rideLog := ridelog.New(cfg.RideLog.Dir, appLogger)

	dispatchSvc := dispatch.New(dispatch.Config{
		Rides:     rideRepo,
		Drivers:   driverRepo,
		Riders:    riderRepo,
		Surge:     surgeEstimator,
		RideLog:   rideLog,
		Publisher: wsHub,
		Logger:    appLogger,
	})
	analyticsSvc := analytics.New(rideRepo, driverRepo)

	// Initialize handlers with dependencies
	h := &handlers.Handlers{
		Dispatch:  dispatchSvc,
		Analytics: analyticsSvc,
		Rides:     rideRepo,
		Drivers:   driverRepo,
		Riders:    riderRepo,
		Surge:     surgeEstimator,
		Override:  override,
		Hub:       wsHub,
		Logger:    appLogger,
		Monitor:   monitor,
	}

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.SetupRoutes(router, h, monitor)
	appLogger.Info("Routes configured")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
