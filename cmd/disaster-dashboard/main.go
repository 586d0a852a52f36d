package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-disaster-dashboard/internal/api"
	"github.com/mr1hm/go-disaster-dashboard/internal/config"
	"github.com/mr1hm/go-disaster-dashboard/internal/dataset"
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/logging"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	observe := func(took time.Duration, s *dataset.Snapshot) {
		metrics.LoadDuration.Observe(took.Seconds())
		metrics.SnapshotRows.Set(float64(len(s.Events)))
	}

	src := dataset.Sources{
		EventsPath:   cfg.Disaster.DataPath,
		DeadlyPath:   cfg.Disaster.DeadlyPath,
		SeverityPath: cfg.Disaster.SeverityPath,
		KeyColumn:    cfg.Disaster.KeyColumn,
		Workers:      cfg.Worker.Count,
	}

	// Initial load; broken inputs are fatal here.
	start := clock.Now()
	snapshot, err := dataset.Build(context.Background(), src, clock)
	if err != nil {
		logging.Fatalf("Failed to load disaster data: %v", err)
	}
	observe(clock.Since(start), snapshot)
	slog.Info("dataset loaded",
		"events", len(snapshot.Events),
		"deadly_predictions", snapshot.HasDeadly,
		"severity_predictions", snapshot.HasSeverity,
		"took", clock.Since(start),
	)

	var provider dataset.Provider = dataset.NewStaticProvider(snapshot)
	if cfg.Disaster.ReloadOnRequest {
		provider = dataset.NewReloadingProvider(src, clock, observe)
		slog.Info("reloading input files on every request")
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger())
	router.Use(api.MetricsMiddleware(metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(provider, api.DisasterOptions{
		CityDefault:    filter.CityDefault(cfg.Disaster.CityFilterDefault),
		TopLocations:   cfg.Disaster.TopLocations,
		ExportFilename: cfg.Disaster.ExportFilename,
	}, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
