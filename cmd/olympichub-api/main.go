package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/discovery"
	"github.com/pevans/olympichub/logger"
	"github.com/pevans/olympichub/predictions"
	"github.com/pevans/olympichub/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)

	store, err := snapshot.NewStore(cfg.DataDir)
	if err != nil {
		log.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}

	// Create prediction store
	predStore, err := predictions.NewStore(cfg.Server.DatabasePath)
	if err != nil {
		log.Error("failed to create prediction store", "error", err)
		os.Exit(1)
	}
	defer predStore.Close()

	if cfg.Server.CronSecret == "" {
		log.Warn("CRON_SECRET is not set; refresh and event routes will reject every request")
	}

	service := discovery.NewService(cfg, store, log)
	router := newRouter(cfg, store, service, predStore)

	log.Info("starting API server", "addr", "http://"+cfg.Server.Addr, "data_dir", store.Dir())
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
