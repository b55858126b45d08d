package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/41parallelobari/agenda-prenotazioni/internal/app"
	"github.com/41parallelobari/agenda-prenotazioni/internal/config"
	"github.com/41parallelobari/agenda-prenotazioni/internal/db"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Configure logging
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	// Create tables and indexes on first run
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalf("failed to ensure db schema: %v", err)
	}

	// Init app container
	container := app.NewContainer(app.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		DBPool:           pool,
		DefaultRooms:     cfg.Register.DefaultRooms,
		FeedFetchTimeout: cfg.Register.Feed.FetchTimeout(),
		Logger:           logger,
	})

	// Schedule periodic feed syncs when configured.
	// Without a schedule, syncs run only through the API.
	if expr := cfg.Register.Feed.SyncCron; expr != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(expr, func() {
			syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			report, err := container.Feeds.SyncAll(syncCtx)
			if err != nil {
				logger.WithError(err).Error("scheduled feed sync failed")
				return
			}
			logger.WithField("imported", report.TotalImported()).Info("scheduled feed sync completed")
		})
		if err != nil {
			logger.Fatalf("invalid feed sync schedule %q: %v", expr, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Infof("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}

	logger.Info("server exited gracefully")
}
