package discovery

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/olympichub/country"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/scraper"
)

const unknown = "Unknown"

var (
	sportSelectors   = []string{".sport", "[data-sport]"}
	eventSelectors   = []string{".event", "[data-event]"}
	winnerSelectors  = []string{".winner", ".athlete-name"}
	countrySelectors = []string{".country", "[data-country]"}
	resultSelectors  = []string{".result", ".time", ".score"}
)

// ScrapeHighlights captures the latest results, stamped with capturedAt.
func (s *Service) ScrapeHighlights(ctx context.Context, capturedAt time.Time) ([]feeds.Highlight, error) {
	cfg := s.feeds.Highlights

	var highlights []feeds.Highlight
	err := s.visit(ctx, cfg, func(page *scraper.Page) {
		highlights = ParseHighlights(page.Document().Selection, cfg.ItemSelector, cfg.MaxItems, capturedAt)
	})
	return highlights, err
}

// ParseHighlights extracts up to max results. Missing text fields read as
// "Unknown" and the result is left empty when absent.
func ParseHighlights(root *goquery.Selection, itemSelector string, max int, capturedAt time.Time) []feeds.Highlight {
	items := scraper.Items(root, itemSelector, max)
	highlights := make([]feeds.Highlight, 0, len(items))
	for _, item := range items {
		code := country.NormalizeCode(scraper.Attr(item, countrySelectors, "data-country-code", ""))
		highlights = append(highlights, feeds.Highlight{
			Sport:       scraper.Text(item, sportSelectors, unknown),
			Event:       scraper.Text(item, eventSelectors, unknown),
			Winner:      scraper.Text(item, winnerSelectors, unknown),
			Country:     scraper.Text(item, countrySelectors, unknown),
			CountryCode: code,
			Flag:        country.Flag(code),
			Result:      scraper.Text(item, resultSelectors, ""),
			Time:        capturedAt,
		})
	}
	return highlights
}
