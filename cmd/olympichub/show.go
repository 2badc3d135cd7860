package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/loader"
	"github.com/pevans/olympichub/snapshot"
)

func handleShow(cfg *config.Config, log *slog.Logger, args []string) {
	// Parse flags for show command
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dataDir := fs.String("data-dir", cfg.DataDir, "Directory to read snapshots from")
	url := fs.String("url", "", "Read from a running API server instead, e.g. http://localhost:8080")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: feed is required\n")
		fmt.Fprintf(os.Stderr, "Usage: olympichub show [flags] <medals|news|highlights|schedule>\n")
		os.Exit(1)
	}

	feed, err := feeds.ParseFeed(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var snap any
	if *url != "" {
		snap = fetchSnapshot(loader.NewClient(*url, 30*time.Second, log), feed)
		if snap == nil {
			fmt.Fprintf(os.Stderr, "Error: could not load %s from %s\n", feed.FileName(), *url)
			os.Exit(1)
		}
	} else {
		store, err := snapshot.NewStore(*dataDir)
		if err != nil {
			fatal(log, "failed to open snapshot store", err)
		}
		snap = newSnapshot(feed)
		if err := store.Read(feed, snap); err != nil {
			fatal(log, "failed to read snapshot", err)
		}
	}

	switch *format {
	case "json":
		printJSON(os.Stdout, snap)
	case "table":
		printSnapshot(os.Stdout, snap)
	default:
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}
}

// newSnapshot returns a pointer to the envelope type of feed.
func newSnapshot(feed feeds.Feed) any {
	switch feed {
	case feeds.Medals:
		return &feeds.MedalsSnapshot{}
	case feeds.News:
		return &feeds.NewsSnapshot{}
	case feeds.Highlights:
		return &feeds.HighlightsSnapshot{}
	default:
		return &feeds.ScheduleSnapshot{}
	}
}

// fetchSnapshot loads feed through the client. It returns nil on failure.
func fetchSnapshot(client *loader.Client, feed feeds.Feed) any {
	ctx := context.Background()
	switch feed {
	case feeds.Medals:
		if s := client.Medals(ctx); s != nil {
			return s
		}
	case feeds.News:
		if s := client.News(ctx); s != nil {
			return s
		}
	case feeds.Highlights:
		if s := client.Highlights(ctx); s != nil {
			return s
		}
	case feeds.Schedule:
		if s := client.Schedule(ctx); s != nil {
			return s
		}
	}
	return nil
}
