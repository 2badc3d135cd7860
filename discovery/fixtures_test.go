package discovery

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/olympichub/config"
	"github.com/pevans/olympichub/scraper"
	"github.com/stretchr/testify/require"
)

const medalsHTML = `<html><body>
<table>
  <thead><tr><th>#</th><th>NOC</th><th>G</th><th>S</th><th>B</th><th>T</th></tr></thead>
  <tbody>
    <tr><td>1</td><td><span data-country-code="NO"></span>Norway</td><td>5</td><td>3</td><td>2</td><td>10</td></tr>
    <tr><td>2</td><td><span data-country-code="it"></span>Italy</td><td>4</td><td>4</td><td>1</td><td>9</td></tr>
    <tr><td>3</td><td><span data-country-code="KOR"></span>Republic of Korea</td><td>2</td><td>1</td><td>0</td><td>3</td></tr>
  </tbody>
</table>
</body></html>`

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Olympics News</title>
    <item>
      <title>Feed headline</title>
      <link>/en/news/feed-headline</link>
      <description>&lt;p&gt;Summary from the &lt;b&gt;feed&lt;/b&gt;&lt;/p&gt;</description>
      <enclosure url="https://img.example.com/feed.jpg" type="image/jpeg" length="100"/>
    </item>
    <item>
      <title></title>
      <link>https://www.example.com/second</link>
    </item>
  </channel>
</rss>`

// Test helper: n news articles with relative links and long summaries
func newsHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range n {
		fmt.Fprintf(&b, `<article>
  <a href="/en/news/story-%d"><img src="/images/story-%d.jpg"></a>
  <h3>Story %d</h3>
  <p>%s</p>
</article>`, i, i, i, strings.Repeat("é", 250))
	}
	b.WriteString("</body></html>")
	return b.String()
}

// Test helper: n result items
func highlightsHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range n {
		fmt.Fprintf(&b, `<div class="result-item">
  <span class="sport">Biathlon</span>
  <span class="event">Race %d</span>
  <span class="winner">Athlete %d</span>
  <span class="country" data-country-code="FR">France</span>
  <span class="result">25:01.%d</span>
</div>`, i, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// Test helper: n schedule items cycling through status labels
func scheduleHTML(n int) string {
	statuses := []string{"Live", "FINISHED", "", "postponed", "Completed"}
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := range n {
		fmt.Fprintf(&b, `<div class="schedule-item">
  <span class="time">%02d:00</span>
  <span class="sport">Curling</span>
  <span class="event">Session %d</span>
  <span class="status">%s</span>
</div>`, i%24, i, statuses[i%len(statuses)])
	}
	b.WriteString("</body></html>")
	return b.String()
}

// fixtureSite serves the four feed pages. Handlers can be replaced per test.
type fixtureSite struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
}

// Test helper: start a site serving healthy fixtures for every feed
func newFixtureSite(t *testing.T) *fixtureSite {
	site := &fixtureSite{
		handlers: map[string]http.HandlerFunc{
			"/medals":   htmlHandler(medalsHTML),
			"/news":     htmlHandler(newsHTML(12)),
			"/results":  htmlHandler(highlightsHTML(7)),
			"/schedule": htmlHandler(scheduleHTML(25)),
			"/news.rss": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/rss+xml")
				w.Write([]byte(rssFeed))
			},
		},
	}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := site.handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(site.server.Close)
	return site
}

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}
}

// Test helper: configuration pointing every feed at the fixture site
func testConfig(origin string) *config.Config {
	cfg := config.Default()
	cfg.Origin = origin
	cfg.Identity.BypassChallenge = false
	cfg.Identity.ReloadInterval = 10 * time.Millisecond

	cfg.Feeds.Medals.URL = "/medals"
	cfg.Feeds.News.URL = "/news"
	cfg.Feeds.Highlights.URL = "/results"
	cfg.Feeds.Schedule.URL = "/schedule"

	for _, pc := range []*scraper.PageConfig{
		&cfg.Feeds.Medals, &cfg.Feeds.News.PageConfig, &cfg.Feeds.Highlights, &cfg.Feeds.Schedule,
	} {
		pc.NavigateTimeout = 2 * time.Second
		pc.ReadyTimeout = 200 * time.Millisecond
	}
	return cfg
}

// Test helper: a service against the fixture site with a fixed clock
func newTestService(t *testing.T, site *fixtureSite) *Service {
	svc := NewService(testConfig(site.server.URL), nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

var testNow = time.Date(2026, 2, 10, 14, 30, 0, 123456789, time.UTC)

// Test helper: parse an HTML document for the Parse* functions
func parseDoc(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

// Test helper: swap a directory for a regular file
func removeAndCreateFile(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("not a directory"), 0o600)
}
