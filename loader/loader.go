// Package loader reads published snapshots back over HTTP the way the
// dashboard does.
package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pevans/olympichub/feeds"
)

// DefaultTTL is how long a loaded snapshot is considered fresh.
const DefaultTTL = 5 * time.Minute

// Client fetches snapshot files from a base URL. Every request bypasses
// HTTP caches.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a client for snapshots published under baseURL, e.g.
// http://localhost:8080 serving /data/medals.json.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache, no-store").
		SetHeader("Pragma", "no-cache")

	return &Client{http: client, logger: logger}
}

// Fetch loads one feed's snapshot. Any failure yields nil: a network error,
// a non-2xx status or a body that is not valid JSON for T.
func Fetch[T any](ctx context.Context, c *Client, feed feeds.Feed) *T {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/data/" + feed.FileName())
	if err != nil {
		c.logger.Warn("snapshot fetch failed", "feed", feed, "error", err)
		return nil
	}
	if !resp.IsSuccess() {
		c.logger.Warn("snapshot fetch failed", "feed", feed, "status", resp.StatusCode())
		return nil
	}

	var v T
	if err := json.Unmarshal(resp.Body(), &v); err != nil {
		c.logger.Warn("snapshot is not valid JSON", "feed", feed, "error", err)
		return nil
	}
	return &v
}

// Medals loads medals.json.
func (c *Client) Medals(ctx context.Context) *feeds.MedalsSnapshot {
	return Fetch[feeds.MedalsSnapshot](ctx, c, feeds.Medals)
}

// News loads news.json.
func (c *Client) News(ctx context.Context) *feeds.NewsSnapshot {
	return Fetch[feeds.NewsSnapshot](ctx, c, feeds.News)
}

// Highlights loads highlights.json.
func (c *Client) Highlights(ctx context.Context) *feeds.HighlightsSnapshot {
	return Fetch[feeds.HighlightsSnapshot](ctx, c, feeds.Highlights)
}

// Schedule loads schedule.json.
func (c *Client) Schedule(ctx context.Context) *feeds.ScheduleSnapshot {
	return Fetch[feeds.ScheduleSnapshot](ctx, c, feeds.Schedule)
}
