package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "scrape":
		handleScrape(cfg, log, os.Args[2:])
	case "show":
		handleShow(cfg, log, os.Args[2:])
	case "watch":
		handleWatch(cfg, log, os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("olympichub - Olympic data scraper and viewer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  olympichub <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape           Scrape all feeds and write snapshots")
	fmt.Println("  show <feed>      Print a snapshot (medals, news, highlights, schedule)")
	fmt.Println("  watch            Poll published medals and print the table")
	fmt.Println("  help             Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OLYMPICHUB_CONFIG     Path to YAML config (default: olympichub.yaml)")
	fmt.Println("  OLYMPICHUB_DATA_DIR   Snapshot directory (default: public/data)")
	fmt.Println("  OLYMPICHUB_ORIGIN     Site to scrape (default: https://www.olympics.com)")
	fmt.Println("  OLYMPICHUB_ADDR       API server address used by watch (default: localhost:8080)")
	fmt.Println("  LOG_LEVEL             debug, info, warn or error (default: info)")
}

// fatal logs err and exits with status 1.
func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
