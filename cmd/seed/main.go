// Command seed replaces the product catalog with the external feed and exits.
package main

import (
	"context"
	"os"
	"time"

	"github.com/Skotchmaster/storefront/internal/app"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()
	logger := logging.New(cfg.LogLevel, "service", cfg.ServiceName, "cmd", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup_failed", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("resource close error", "error", err)
		}
	}()

	n, err := a.Cat.BulkReplace(ctx)
	if err != nil {
		logger.Error("seed_failed", "error", err)
		return 1
	}

	logger.Info("seed_complete", "count", n)
	return 0
}
