package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/config"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
	"go-cms-sdk/internal/handler"
	"go-cms-sdk/internal/logger"
	"go-cms-sdk/internal/middleware"
	"go-cms-sdk/internal/sdk"
	"go-cms-sdk/internal/service"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	if cfg.DB.Migrate {
		log.Info("Applying database migrations...")
		if err := data.ApplyMigrations(db); err != nil {
			log.Fatal(err, "Failed to apply migrations")
		}
		log.Info("Migrations applied successfully.")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	store := cache.New(cfg.Cache)
	executor := data.NewExecutor(db)
	tracker := diff.NewTracker(executor, cfg.Diff, log)
	cms := sdk.New(executor, store, tracker, log)
	previewService := service.NewPreviewService(cms)

	handlers := handler.Handlers{
		Pages:   handler.NewPageHandler(cms, previewService, log),
		Diffs:   handler.NewDiffHandler(cms, log),
		Content: handler.NewContentHandler(cms, log),
		Seo:     handler.NewSeoHandler(cms, cfg.Server.BaseURL),
	}
	errorMiddleware := middleware.Error(log)

	// --- Router Setup ---
	router := handler.NewRouter(handlers, errorMiddleware)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
