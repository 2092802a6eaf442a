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

	"github.com/Skotchmaster/storefront/internal/app"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel, "service", cfg.ServiceName, "env", cfg.AppEnv)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.Open(logging.IntoContext(startCtx, logger), cfg, logger)
	cancel()
	if err != nil {
		logger.Error("startup_failed", "error", err)
		os.Exit(1)
	}

	deps := &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: a.Auth},
		Catalog: &httpserver.CatalogHTTP{Svc: a.Cat},
		Cart:    &httpserver.CartHTTP{Svc: a.Cart},
		Health:  &httpserver.HealthHTTP{Store: a.Store},
		Metrics: metrics.New(),
	}
	e := httpserver.New(logger, deps, cfg.Development())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := a.Close(); err != nil {
		logger.Error("resource close error", "error", err)
	}

	logger.Info("shutdown complete")
}
