package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ippeitanaka/orienteering-sub000/config"
	"github.com/ippeitanaka/orienteering-sub000/db"
	"github.com/ippeitanaka/orienteering-sub000/handlers"
	"github.com/ippeitanaka/orienteering-sub000/realtime"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	api "github.com/ippeitanaka/orienteering-sub000/routes"
	"github.com/ippeitanaka/orienteering-sub000/services"
	"github.com/ippeitanaka/orienteering-sub000/storage"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
)

// timerSweepInterval bounds how stale a "running" row can be after the
// countdown actually hit zero.
const timerSweepInterval = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// QR poster publishing is optional; the event runs fine without R2.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 not configured, QR poster publishing disabled")
	}

	hub := realtime.NewHub()
	go hub.Run()
	logger.Info("realtime hub started")

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	checkpointRepo := repositories.NewPostgresCheckpointRepository(dbConn)
	checkinRepo := repositories.NewPostgresCheckinRepository(dbConn)
	locationRepo := repositories.NewPostgresLocationRepository(dbConn)
	timerRepo := repositories.NewPostgresTimerRepository(dbConn)
	staffRepo := repositories.NewPostgresStaffRepository(dbConn)
	logger.Info("repositories initialized")

	clock := clockwork.NewRealClock()

	authService := services.NewAuthService(staffRepo, teamRepo)
	teamService := services.NewTeamService(teamRepo, hub)
	checkpointService := services.NewCheckpointService(checkpointRepo)
	checkinService := services.NewCheckinService(checkinRepo, checkpointRepo, teamRepo, hub, logger)
	locationService := services.NewLocationService(locationRepo, hub, clock)
	timerService := services.NewTimerService(timerRepo, hub, clock)
	qrCodeService := services.NewQRCodeService(checkpointService, uploader, cfg.AppBaseURL, nil)
	dashboardService := services.NewDashboardService(teamRepo, checkpointRepo, checkinRepo, timerService)
	logger.Info("services initialized")

	// Finalize an expired countdown shortly after it hits zero so late
	// joiners read "finished" even without deriving it themselves.
	go func() {
		ticker := time.NewTicker(timerSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := timerService.FinalizeExpired(context.Background()); err != nil {
				logger.Error("timer sweep failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	checkpointHandler := handlers.NewCheckpointHandler(checkpointService, qrCodeService)
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	locationHandler := handlers.NewLocationHandler(locationService)
	timerHandler := handlers.NewTimerHandler(timerService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		authHandler,
		teamHandler,
		checkpointHandler,
		checkinHandler,
		locationHandler,
		timerHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
