package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-disaster-dashboard/internal/api"
	"github.com/mr1hm/go-disaster-dashboard/internal/config"
	"github.com/mr1hm/go-disaster-dashboard/internal/housing"
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

	data, err := housing.Load(cfg.Housing.DataPath)
	if err != nil {
		logging.Fatalf("Failed to load housing data: %v", err)
	}
	slog.Info("housing data loaded", "rows", data.Len(), "numeric_columns", len(data.NumericColumns()))

	if _, err := data.ScatterMatrix(cfg.Housing.ScatterColumns); err != nil {
		logging.Fatalf("Invalid HOUSING_SCATTER_COLUMNS: %v", err)
	}

	metrics := observability.NewMetrics()
	metrics.SnapshotRows.Set(float64(data.Len()))

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
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHousingHandler(data, api.HousingOptions{
		ScatterColumns: cfg.Housing.ScatterColumns,
		ZScoreRows:     cfg.Housing.ZScoreRows,
		ExportFilename: cfg.Housing.ExportFilename,
	})
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
