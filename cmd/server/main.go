// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/analytics"
	"github.com/andresuchdata/inventory-dashboard/internal/api"
	"github.com/andresuchdata/inventory-dashboard/internal/cache"
	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/drive"
	"github.com/andresuchdata/inventory-dashboard/internal/service"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/andresuchdata/inventory-dashboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srcs, err := source.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("kind", cfg.Source.Kind).Msg("Failed to initialize inventory source")
	}

	viewCache, err := cache.NewViewCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, dashboard views will not be cached")
		viewCache = cache.NewNoopViewCache()
	}

	inventoryService := service.NewInventoryService(service.Options{
		Inventory: srcs.Inventory,
		Master:    srcs.Master,
		Processor: analytics.NewProcessor(analytics.Options{
			RankingLimit: cfg.App.RankingLimit,
			ForecastDays: cfg.App.ForecastDays,
			Location:     cfg.App.Location(),
		}),
		Cache:        viewCache,
		FetchTimeout: cfg.Source.FetchTimeout,
	})

	if _, err := inventoryService.Refresh(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Initial inventory load failed, serving 503 until a refresh succeeds")
	}

	services := &api.Services{InventoryService: inventoryService}
	if srcs.Drive != nil {
		services.Drive = srcs.Drive

		if cfg.Drive.PollInterval > 0 {
			watcher := drive.NewWatcher(srcs.Drive, cfg.Drive.InventoryFileID, cfg.Drive.PollInterval,
				func(ctx context.Context, _ *drive.File) error {
					_, err := inventoryService.Refresh(ctx)
					return err
				})
			go watcher.Run(ctx)
		}
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("source", srcs.Inventory.Name()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}

	logger.Log.Info().Msg("Server exiting")
}
