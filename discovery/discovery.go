// Package discovery captures the four feeds from the source site and
// persists them as snapshots.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/scraper"
	"github.com/pevans/olympichub/snapshot"
	"golang.org/x/sync/errgroup"
)

// ErrNavigation marks a feed whose page could not be loaded at all.
var ErrNavigation = errors.New("navigation failed")

// Service scrapes every feed page and writes the results to a snapshot
// store. The CLI and the refresh endpoint share one Service.
type Service struct {
	origin   string
	identity scraper.Identity
	feeds    config.FeedsConfig
	store    *snapshot.Store
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a discovery service. store may be nil when only
// SyncAll is used.
func NewService(cfg *config.Config, store *snapshot.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		origin:   cfg.Origin,
		identity: cfg.Identity,
		feeds:    cfg.Feeds,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// FeedResult reports the outcome of scraping one feed. A failed feed has a
// non-nil Err and zero Count.
type FeedResult struct {
	Feed     feeds.Feed
	Count    int
	Err      error
	Duration time.Duration
}

// OK reports whether the feed was captured.
func (r FeedResult) OK() bool {
	return r.Err == nil
}

// SyncResult holds everything captured in one run. Lists of failed feeds are
// empty, never nil.
type SyncResult struct {
	CapturedAt time.Time
	Medals     []feeds.MedalStanding
	Articles   []feeds.NewsArticle
	Highlights []feeds.Highlight
	Events     []feeds.ScheduleEvent
	Feeds      []FeedResult
}

// Errors returns the failure message of each failed feed, keyed by feed
// name.
func (r *SyncResult) Errors() map[string]string {
	errs := map[string]string{}
	for _, f := range r.Feeds {
		if f.Err != nil {
			errs[string(f.Feed)] = f.Err.Error()
		}
	}
	return errs
}

// Result returns the outcome of a single feed.
func (r *SyncResult) Result(feed feeds.Feed) (FeedResult, bool) {
	for _, f := range r.Feeds {
		if f.Feed == feed {
			return f, true
		}
	}
	return FeedResult{}, false
}

// SyncAll scrapes all four feeds concurrently and waits for every one of
// them. One feed failing never stops or alters the others.
func (s *Service) SyncAll(ctx context.Context) *SyncResult {
	result := &SyncResult{
		CapturedAt: s.captureTime(),
		Feeds:      make([]FeedResult, len(feeds.All)),
	}

	// Each goroutine writes only its own slot.
	var g errgroup.Group
	for i, feed := range feeds.All {
		g.Go(func() error {
			result.Feeds[i] = s.syncFeed(ctx, feed, result)
			return nil
		})
	}
	g.Wait()

	if result.Medals == nil {
		result.Medals = []feeds.MedalStanding{}
	}
	if result.Articles == nil {
		result.Articles = []feeds.NewsArticle{}
	}
	if result.Highlights == nil {
		result.Highlights = []feeds.Highlight{}
	}
	if result.Events == nil {
		result.Events = []feeds.ScheduleEvent{}
	}

	return result
}

// syncFeed runs the scraper for one feed and stores its records in the
// feed's field of result. Records are stamped with result.CapturedAt.
func (s *Service) syncFeed(ctx context.Context, feed feeds.Feed, result *SyncResult) FeedResult {
	start := time.Now()
	s.logger.Info("scraping feed", "feed", feed)

	var (
		count int
		err   error
	)
	switch feed {
	case feeds.Medals:
		var records []feeds.MedalStanding
		if records, err = s.ScrapeMedals(ctx); err == nil {
			result.Medals, count = records, len(records)
		}
	case feeds.News:
		var records []feeds.NewsArticle
		if records, err = s.ScrapeNews(ctx, result.CapturedAt); err == nil {
			result.Articles, count = records, len(records)
		}
	case feeds.Highlights:
		var records []feeds.Highlight
		if records, err = s.ScrapeHighlights(ctx, result.CapturedAt); err == nil {
			result.Highlights, count = records, len(records)
		}
	case feeds.Schedule:
		var records []feeds.ScheduleEvent
		if records, err = s.ScrapeSchedule(ctx); err == nil {
			result.Events, count = records, len(records)
		}
	default:
		err = fmt.Errorf("unsupported feed: %s", feed)
	}

	duration := time.Since(start)
	if err != nil {
		s.logger.Error("feed failed", "feed", feed, "error", err, "duration", duration)
		return FeedResult{Feed: feed, Err: err, Duration: duration}
	}

	s.logger.Info("feed captured", "feed", feed, "count", count, "duration", duration)
	return FeedResult{Feed: feed, Count: count, Duration: duration}
}

// Refresh runs SyncAll and writes all four snapshots with the run's shared
// capture time. Feed failures are reported in the result; an error is
// returned only when a snapshot cannot be persisted.
func (s *Service) Refresh(ctx context.Context) (*SyncResult, error) {
	if s.store == nil {
		return nil, errors.New("no snapshot store configured")
	}

	result := s.SyncAll(ctx)

	snapshots := []struct {
		feed feeds.Feed
		data any
	}{
		{feeds.Medals, feeds.MedalsSnapshot{LastUpdated: result.CapturedAt, Medals: result.Medals}},
		{feeds.News, feeds.NewsSnapshot{LastUpdated: result.CapturedAt, Articles: result.Articles}},
		{feeds.Highlights, feeds.HighlightsSnapshot{LastUpdated: result.CapturedAt, Highlights: result.Highlights}},
		{feeds.Schedule, feeds.ScheduleSnapshot{LastUpdated: result.CapturedAt, Events: result.Events}},
	}

	var errs []error
	for _, snap := range snapshots {
		if err := s.store.Write(snap.feed, snap.data); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return result, fmt.Errorf("failed to persist snapshots: %w", err)
	}

	s.logger.Info("snapshots written", "dir", s.store.Dir(), "captured_at", result.CapturedAt)
	return result, nil
}

// visit opens one feed page in a fresh session, waits for it to be ready
// and hands it to extract. The session is always closed.
func (s *Service) visit(ctx context.Context, pc scraper.PageConfig, extract func(*scraper.Page)) error {
	session, err := scraper.NewSession(s.identity)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	pageURL := scraper.Absolutize(s.origin, pc.URL)
	page, err := session.Open(ctx, pageURL, pc.NavigateTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	if pc.ReadySelector != "" {
		if err := page.WaitFor(ctx, pc.ReadySelector, pc.ReadyTimeout); err != nil {
			return err
		}
	}

	extract(page)
	return nil
}

func (s *Service) captureTime() time.Time {
	return feeds.CaptureTime(s.now())
}
