// File: app/app.go
package app

import (
	"context"
	"go-booking-api/config"
	"go-booking-api/db"
	"go-booking-api/handler"
	"go-booking-api/logger"
	"go-booking-api/metrics"
	"go-booking-api/repository"
	"go-booking-api/router"
	"go-booking-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const purgeInterval = 24 * time.Hour

func Run() {
	logger.Init()
	logger.Log.Info("Logger initialized")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.Log.Info("Configuration loaded successfully")

	metrics.MustRegister()

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(cfg, "file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		// The user-profile cache is an optimization; run without it.
		logger.Log.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisClient = nil
	}

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	appointmentRepo := repository.NewAppointmentRepository(database)

	tokenService := service.NewTokenService(cfg)
	authService := service.NewAuthService(userRepo, tokenRepo, tokenService)
	var cache service.ICacheClient
	if redisClient != nil {
		cache = redisClient
	}
	userService := service.NewUserService(userRepo, cache)
	googleService := service.NewGoogleAuthService(cfg, userRepo, userService)
	slotService := service.NewSlotService(cfg, appointmentRepo)
	appointmentService := service.NewAppointmentService(database, appointmentRepo, cfg)
	emailService := service.NewEmailService(cfg)

	authHandler := handler.NewAuthHandler(authService, googleService, userService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, userService, emailService, cfg)
	slotHandler := handler.NewSlotHandler(slotService)

	r := router.NewRouter(cfg, tokenService, authHandler, appointmentHandler, slotHandler)

	// Retention cleanup: once at startup, then on a fixed daily interval.
	purgeDone := make(chan struct{})
	go runPurgeLoop(appointmentService, cfg.Booking.AppointmentRetentionDays, purgeDone)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	close(purgeDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

func runPurgeLoop(appointments *service.AppointmentService, retentionDays int, done <-chan struct{}) {
	purge := func() {
		if _, err := appointments.PurgeOlderThan(retentionDays); err != nil {
			logger.Log.WithError(err).Error("Appointment retention cleanup failed")
		}
	}

	purge()
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			purge()
		case <-done:
			return
		}
	}
}
