package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/loader"
)

func handleWatch(cfg *config.Config, log *slog.Logger, args []string) {
	// Parse flags for watch command
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	url := fs.String("url", "http://"+cfg.Server.Addr, "API server publishing the snapshots")
	interval := fs.Duration("interval", cfg.Server.PollInterval, "Polling interval")
	top := fs.Int("top", 10, "Number of countries to show")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := loader.NewClient(*url, 30*time.Second, log)
	var cached loader.Cached[*feeds.MedalsSnapshot]

	log.Info("watching medals", "url", *url, "interval", *interval)
	loader.Poll(ctx, *interval, func(ctx context.Context) {
		now := time.Now()
		if snap := client.Medals(ctx); snap != nil {
			cached = loader.NewCached(snap, now)
		} else if cached.Data != nil {
			log.Warn("using previous medals", "loaded_at", cached.CapturedAt)
		}

		if cached.Data == nil {
			fmt.Println("Medal data is not available yet.")
			return
		}

		fmt.Printf("\n%s\n", watchHeading(cached, now))
		printKorea(os.Stdout, cached.Data.Medals)
		printMedals(os.Stdout, headOf(cached.Data.Medals, *top), cached.Data.LastUpdated)
	})
}

// watchHeading labels a poll's output, marking medals older than
// loader.DefaultTTL as stale.
func watchHeading(cached loader.Cached[*feeds.MedalsSnapshot], now time.Time) string {
	heading := now.Format("2006-01-02 15:04:05")
	if !cached.Fresh(now, loader.DefaultTTL) {
		heading += fmt.Sprintf(" (stale: last loaded %s)", cached.CapturedAt.Format("15:04:05"))
	}
	return heading
}

func headOf[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
