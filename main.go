package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlink-registry/activity"
	"shortlink-registry/cache"
	"shortlink-registry/config"
	_ "shortlink-registry/docs" // Swagger docs
	"shortlink-registry/handler"
	appLogger "shortlink-registry/logger"
	"shortlink-registry/middleware"
	"shortlink-registry/registry"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Short-Link Registry API
// @version 1.0
// @description In-memory URL shortening service with click statistics, an activity log, and simulated redirects. Nothing persists across restarts.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

// @tag.name Links
// @tag.description Creating and resolving short links

// @tag.name Statistics
// @tag.description Aggregate click statistics (expired links included)

// @tag.name Activity
// @tag.description The in-memory activity log

// @tag.name System
// @tag.description Health checks and cache metrics

func main() {
	// Load configuration, then configure logging from it
	cfg := config.MustLoadConfig()
	appLogger.Initialize(cfg.Logging)
	log.Info().Msg("Configuration loaded successfully")

	// Initialize resolve cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Resolve cache disabled in configuration")
	}

	// Activity log and registry, wired by explicit dependency injection
	activityLog := activity.New(cfg.Activity.MaxEntries)
	var linkCache registry.LinkCache
	if cacheClient != nil {
		linkCache = cacheClient
	}
	reg := registry.New(activityLog, linkCache, registry.Options{
		DefaultValidityMinutes: cfg.Shortener.DefaultValidityMinutes,
		MaxBatchSize:           cfg.Shortener.MaxBatchSize,
	})

	h := handler.New(reg, activityLog, cacheClient, cfg)

	// Set up router
	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)

	// Register routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", h.CacheMetrics).Methods("GET")
	r.HandleFunc("/shorten", h.CreateShortLink).Methods("POST")
	r.HandleFunc("/shorten/batch", h.CreateShortLinkBatch).Methods("POST")
	r.HandleFunc("/api/links", h.GetLinkStats).Methods("GET")
	r.HandleFunc("/api/links/{shortcode}", h.GetLinkDetail).Methods("GET")
	r.HandleFunc("/api/activity", h.GetActivityLog).Methods("GET")
	r.HandleFunc("/qr/{shortcode}", h.GenerateQR).Methods("GET")

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Resolve route (must be last to avoid conflicts)
	r.HandleFunc("/{shortcode}", h.ResolveShortLink).Methods("GET")

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if cacheClient != nil {
		cacheClient.Close()
	}

	log.Info().Msg("Server stopped gracefully")
}
