package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/api"
	"github.com/tzsmit/nova-titan-parlay/internal/api/handlers"
	"github.com/tzsmit/nova-titan-parlay/internal/api/middleware"
	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
	"github.com/tzsmit/nova-titan-parlay/internal/providers"
	"github.com/tzsmit/nova-titan-parlay/internal/safety"
	"github.com/tzsmit/nova-titan-parlay/internal/services"
	"github.com/tzsmit/nova-titan-parlay/internal/tracker"
	"github.com/tzsmit/nova-titan-parlay/pkg/config"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Wagering core
	engine := parlay.NewEngine(parlay.Thresholds{
		SignificantMovementPct: cfg.SignificantMovementPct,
		MinEdgePct:             cfg.MinEdgePct,
		BookDiscountPct:        cfg.BookDiscountPct,
	})
	scorer := safety.NewScorer(nil)
	pickTracker := tracker.New()

	// Services
	cacheService := services.NewCacheService(redisClient, cfg.MovementHistoryLimit)

	oddsClient := providers.NewOddsAPIClient(providers.OddsAPIConfig{
		BaseURL:          cfg.OddsAPIBaseURL,
		APIKey:           cfg.OddsAPIKey,
		Timeout:          cfg.ExternalAPITimeout,
		RequestsPerSec:   float64(cfg.OddsRateLimit),
		FailureThreshold: uint32(cfg.CircuitBreakerThreshold),
	}, logrus.StandardLogger())

	quoteService := services.NewQuoteService(oddsClient, cacheService, engine,
		logrus.StandardLogger(), cfg.SupportedSports, cfg.OddsRefreshSchedule, cfg.QuoteCacheTTL)
	if err := quoteService.Start(); err != nil {
		logrus.Errorf("Failed to start quote refresh: %v", err)
	}
	defer quoteService.Stop()

	var sender services.SMSSender
	if cfg.SMSProvider == "twilio" {
		sender = services.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
			cfg.TwilioFromNumber, logrus.StandardLogger())
	} else {
		sender = services.NewMockSMSSender()
	}
	alertService := services.NewAlertService(sender,
		services.NewAlertRateLimiter(cfg.AlertsPerHour, time.Hour), logrus.StandardLogger())

	// Replay persisted picks into the in-memory tracker
	pickStore := services.NewPickStore(db, logrus.StandardLogger())
	if err := pickStore.Hydrate(pickTracker); err != nil {
		logrus.Errorf("Failed to hydrate pick history: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))
	router.Use(middleware.RateLimit(cfg.RequestsPerSecond, cfg.RequestBurst))

	// Health endpoints at root level
	healthHandler := handlers.NewHealthHandler(db, redisClient, oddsClient)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		DB:      db,
		Config:  cfg,
		Engine:  engine,
		Scorer:  scorer,
		Tracker: pickTracker,
		Quotes:  quoteService,
		Alerts:  alertService,
		Picks:   pickStore,
	})

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
