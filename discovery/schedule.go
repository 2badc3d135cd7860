package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/scraper"
)

var (
	timeSelectors   = []string{".time", "[data-time]"}
	venueSelectors  = []string{".venue", "[data-venue]"}
	statusSelectors = []string{".status", "[data-status]"}
)

// ScrapeSchedule captures the competition schedule.
func (s *Service) ScrapeSchedule(ctx context.Context) ([]feeds.ScheduleEvent, error) {
	cfg := s.feeds.Schedule

	var events []feeds.ScheduleEvent
	err := s.visit(ctx, cfg, func(page *scraper.Page) {
		events = ParseSchedule(page.Document().Selection, cfg.ItemSelector, cfg.MaxItems)
	})
	return events, err
}

// ParseSchedule extracts up to max schedule entries.
func ParseSchedule(root *goquery.Selection, itemSelector string, max int) []feeds.ScheduleEvent {
	items := scraper.Items(root, itemSelector, max)
	events := make([]feeds.ScheduleEvent, 0, len(items))
	for _, item := range items {
		events = append(events, feeds.ScheduleEvent{
			Time:   scraper.Text(item, timeSelectors, ""),
			Sport:  scraper.Text(item, sportSelectors, unknown),
			Event:  scraper.Text(item, eventSelectors, unknown),
			Venue:  scraper.Text(item, venueSelectors, unknown),
			Status: ParseStatus(scraper.Text(item, statusSelectors, "")),
		})
	}
	return events
}

// ParseStatus maps a status label to an EventStatus. Labels are compared
// case-insensitively; anything unrecognized is upcoming.
func ParseStatus(label string) feeds.EventStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "live", "in progress":
		return feeds.StatusLive
	case "finished", "completed", "final", "ended":
		return feeds.StatusFinished
	default:
		return feeds.StatusUpcoming
	}
}
