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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"energy-dataset/internal/api"
	"energy-dataset/internal/config"
	"energy-dataset/internal/loader"
	"energy-dataset/internal/metrics"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := loadConfig(os.Getenv("ENERGY_CONFIG"))
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	manager, err := loader.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create loader")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// collections are read-only once served, so load before listening
	if _, err := manager.Data(ctx); err != nil {
		logger.WithError(err).Fatal("failed to load datasets")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.API.Port),
		Handler:           api.NewRouter(manager, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
	logger.Info("server stopped")
}

// loadConfig reads path, or falls back to the default dataset layout with
// environment overrides when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}
