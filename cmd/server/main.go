// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/modhub-backend/internal/cache"
	"github.com/javajoker/modhub-backend/internal/config"
	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/jobs"
	"github.com/javajoker/modhub-backend/internal/logger"
	"github.com/javajoker/modhub-backend/internal/middleware"
	"github.com/javajoker/modhub-backend/internal/router"
	"github.com/javajoker/modhub-backend/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	logger.Setup(cfg.Log)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	if cfg.SeedData {
		if err := database.SeedInitialData(db, cfg.SeedAdminPassword); err != nil {
			logrus.Fatal("Failed to seed data: ", err)
		}
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}

	views, err := cache.NewViewDeduper(cfg.Cache)
	if err != nil {
		logrus.Fatal("Failed to initialize view cache: ", err)
	}
	if closer, ok := views.(io.Closer); ok {
		defer closer.Close()
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, svc := router.Initialize(db, cfg, router.Deps{
		Store:      store,
		Views:      views,
		RateLimits: middleware.DefaultRateLimits(),
	})

	scheduler, err := jobs.NewScheduler(cfg.Jobs, svc.Users)
	if err != nil {
		logrus.Fatal("Failed to initialize scheduler: ", err)
	}
	scheduler.Start()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"storage": cfg.Storage.Driver,
			"cache":   cfg.Cache.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	scheduler.Stop(ctx)

	logrus.Info("Server exited")
}
