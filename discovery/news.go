package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/scraper"
)

const (
	summaryLimit    = 200
	defaultTitle    = "Untitled"
	defaultCategory = "general"
)

var (
	titleSelectors   = []string{"h3", "h2", ".title"}
	summarySelectors = []string{"p", ".summary", ".description"}
	linkSelectors    = []string{"a[href]"}
	imageSelectors   = []string{"img[src]"}
)

// ScrapeNews captures the news listing. If the page cannot be scraped and a
// fallback feed is configured, articles are read from the feed instead.
// capturedAt stamps article ids and publish times.
func (s *Service) ScrapeNews(ctx context.Context, capturedAt time.Time) ([]feeds.NewsArticle, error) {
	cfg := s.feeds.News

	var articles []feeds.NewsArticle
	err := s.visit(ctx, cfg.PageConfig, func(page *scraper.Page) {
		articles = ParseNews(page.Document().Selection, cfg.ItemSelector, cfg.MaxItems, scraper.Origin(page.URL()), capturedAt)
	})
	if err == nil || cfg.FallbackFeedURL == "" {
		return articles, err
	}

	s.logger.Warn("news page failed, reading fallback feed",
		"error", err,
		"feed_url", cfg.FallbackFeedURL)

	fallback, ferr := s.fetchNewsFeed(ctx, capturedAt)
	if ferr != nil {
		return nil, fmt.Errorf("%w; fallback feed: %w", err, ferr)
	}
	return fallback, nil
}

// ParseNews extracts up to max articles from the listing. Relative links and
// image sources are resolved against origin. Summaries are whitespace
// normalized by scraper.Text, so line breaks and tabs become single spaces,
// and then cut to summaryLimit runes.
func ParseNews(root *goquery.Selection, itemSelector string, max int, origin string, capturedAt time.Time) []feeds.NewsArticle {
	items := scraper.Items(root, itemSelector, max)
	articles := make([]feeds.NewsArticle, 0, len(items))
	for i, item := range items {
		articles = append(articles, feeds.NewsArticle{
			ID:          articleID(capturedAt, i),
			Title:       scraper.Text(item, titleSelectors, defaultTitle),
			Summary:     truncate(scraper.Text(item, summarySelectors, ""), summaryLimit),
			URL:         scraper.Absolutize(origin, scraper.Attr(item, linkSelectors, "href", "")),
			Image:       scraper.Absolutize(origin, scraper.Attr(item, imageSelectors, "src", "")),
			PublishedAt: capturedAt,
			Category:    defaultCategory,
		})
	}
	return articles
}

// fetchNewsFeed reads the configured RSS or Atom feed.
func (s *Service) fetchNewsFeed(ctx context.Context, capturedAt time.Time) ([]feeds.NewsArticle, error) {
	feedURL := scraper.Absolutize(s.origin, s.feeds.News.FallbackFeedURL)

	fp := gofeed.NewParser()
	fp.UserAgent = s.identity.UserAgent
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return FeedToArticles(feed, s.feeds.News.MaxItems, scraper.Origin(feedURL), capturedAt), nil
}

// FeedToArticles maps the first max feed items to articles using the same
// defaults as the HTML listing. gofeed normalizes RSS and Atom into one
// item shape, so both formats are handled here.
func FeedToArticles(feed *gofeed.Feed, max int, origin string, capturedAt time.Time) []feeds.NewsArticle {
	items := feed.Items
	if max > 0 && len(items) > max {
		items = items[:max]
	}

	articles := make([]feeds.NewsArticle, 0, len(items))
	for i, item := range items {
		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" {
			title = defaultTitle
		}

		articles = append(articles, feeds.NewsArticle{
			ID:          articleID(capturedAt, i),
			Title:       title,
			Summary:     truncate(plainText(item.Description), summaryLimit),
			URL:         scraper.Absolutize(origin, item.Link),
			Image:       scraper.Absolutize(origin, itemImage(item)),
			PublishedAt: capturedAt,
			Category:    defaultCategory,
		})
	}
	return articles
}

// itemImage returns the item's image, falling back to the first image
// enclosure.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// plainText strips markup from feed descriptions, which are often HTML.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func articleID(capturedAt time.Time, i int) string {
	return fmt.Sprintf("news-%d-%d", capturedAt.UnixMilli(), i)
}

// truncate keeps at most limit runes of s. It does not touch whitespace.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
