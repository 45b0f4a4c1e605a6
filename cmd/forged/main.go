package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"assetforge/internal/config"
	"assetforge/internal/daemon"
	"assetforge/internal/logging"
	"assetforge/internal/preflight"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewForDir(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	checks := preflight.Run(ctx, cfg, preflight.Providers{})
	for _, check := range checks {
		if !check.Available {
			logger.Warn("preflight check failed",
				logging.String("check", check.Name),
				logging.Bool("optional", check.Optional),
				logging.String("detail", check.Detail),
			)
		}
	}
	if !preflight.Ready(checks) {
		logger.Error("environment not ready, refusing to start")
		return
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("forged shutting down")
}
