package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/discovery"
	"github.com/pevans/olympichub/snapshot"
)

func handleScrape(cfg *config.Config, log *slog.Logger, args []string) {
	// Parse flags for scrape command
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	dataDir := fs.String("data-dir", cfg.DataDir, "Directory to write snapshots to")
	origin := fs.String("origin", cfg.Origin, "Site to scrape")
	strict := fs.Bool("strict", false, "Exit with status 2 if any feed failed")
	fs.Parse(args)

	cfg.DataDir = *dataDir
	cfg.Origin = *origin

	store, err := snapshot.NewStore(cfg.DataDir)
	if err != nil {
		fatal(log, "failed to open snapshot store", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := discovery.NewService(cfg, store, log)
	result, err := service.Refresh(ctx)
	if err != nil {
		fatal(log, "scrape failed", err)
	}

	printSyncResult(os.Stdout, result)
	fmt.Printf("\nSnapshots written to %s\n", store.Dir())

	if *strict && len(result.Errors()) > 0 {
		os.Exit(2)
	}
}
