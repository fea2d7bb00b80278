// File: gigmatch/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigmatch/config"
	"gigmatch/database"
	bookingRepo "gigmatch/database/repository/booking"
	musicianRepo "gigmatch/database/repository/musician"
	presenceRepo "gigmatch/database/repository/presence"
	"gigmatch/handlers"
	"gigmatch/middleware"
	"gigmatch/routes"
	"gigmatch/services/availability"
	"gigmatch/services/geo"
	"gigmatch/services/matching"
	"gigmatch/services/presence"
	"gigmatch/services/pricing"
	"gigmatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthProbeInterval = 60 * time.Second

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitPresenceCache()
	db := database.Database()

	// repositories.
	musicians := musicianRepo.NewMongoMusicianRepo(db, cfg.StoreTimeout)
	bookings := bookingRepo.NewMongoBookingRepo(db, cfg.StoreTimeout)
	presenceStore := presenceRepo.NewRedisPresenceRepo(utils.GetPresenceClient(), cfg.StoreTimeout)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := musicians.EnsureIndexes(indexCtx); err != nil {
		logger.Error("main: failed to ensure musician indexes", zap.Error(err))
	}
	if err := bookings.EnsureIndexes(indexCtx); err != nil {
		logger.Error("main: failed to ensure booking indexes", zap.Error(err))
	}
	cancelIndexes()

	// services.
	tracker := presence.NewTracker(presenceStore, musicians, geo.Haversine{},
		presence.Config{StalenessThreshold: cfg.PresenceStaleness},
		logger.Named("presence"))
	detector := availability.NewDetector(bookings,
		availability.Config{DayStartHour: cfg.DayWindowStartHour, DayEndHour: cfg.DayWindowEndHour},
		logger.Named("availability"))
	rateEngine := pricing.NewEngine(musicians, musicians, pricing.StaticDemand{Factor: 1},
		pricing.Config{UrgencyMultiplier: cfg.UrgencyMultiplier, DefaultCurrency: cfg.DefaultCurrency},
		logger.Named("pricing"))
	ranker := matching.NewRanker(tracker, detector, rateEngine,
		matching.Config{WorkerLimit: cfg.MatchWorkerLimit, DefaultRadiusKm: cfg.DefaultSearchRadiusKm},
		logger.Named("matching"))

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, healthProbeInterval, utils.GetPresenceClient(), database.MongoClient, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		PresenceHandler:     handlers.NewPresenceHandler(tracker),
		AvailabilityHandler: handlers.NewAvailabilityHandler(detector),
		RateHandler:         handlers.NewRateHandler(rateEngine),
		MatchingHandler:     handlers.NewMatchingHandler(ranker),
		HealthHandler:       handlers.NewHealthHandler(),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := utils.GetPresenceClient().Close(); err != nil {
		logger.Warn("main: failed to close redis client", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect mongo", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
