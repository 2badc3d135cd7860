package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"strconv"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

var (
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	ErrNotReady   = errors.New("ready selector did not appear")
)

// Session is an isolated browsing context: it owns its own cookie jar and
// connection pool and presents a fixed browser identity. A session is used by
// a single scrape and closed afterwards.
type Session struct {
	http     *resty.Client
	interval time.Duration
}

// NewSession creates a session presenting the given identity.
func NewSession(id Identity) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetCookieJar(jar)
	if id.BypassChallenge {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if id.UserAgent != "" {
		client.SetHeader("User-Agent", id.UserAgent)
	}
	if id.AcceptLanguage != "" {
		client.SetHeader("Accept-Language", id.AcceptLanguage)
	}
	if id.ViewportWidth > 0 {
		client.SetHeader("Viewport-Width", strconv.Itoa(id.ViewportWidth))
		client.SetHeader("Sec-CH-Viewport-Width", strconv.Itoa(id.ViewportWidth))
	}
	if id.ViewportHeight > 0 {
		client.SetHeader("Sec-CH-Viewport-Height", strconv.Itoa(id.ViewportHeight))
	}

	interval := id.ReloadInterval
	if interval <= 0 {
		interval = time.Second
	}

	// one request per interval, no bursts
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Session{
		http:     client,
		interval: interval,
	}, nil
}

// Close releases the session's connections. It is safe to call more than
// once.
func (s *Session) Close() {
	s.http.GetClient().CloseIdleConnections()
}

// Open navigates to url and parses the response. The timeout bounds the
// request and the body read; zero means no timeout beyond ctx.
func (s *Session) Open(ctx context.Context, url string, timeout time.Duration) (*Page, error) {
	page := &Page{session: s, url: url}
	if err := page.load(ctx, timeout); err != nil {
		return nil, err
	}
	return page, nil
}

// fetch performs a GET and returns the body decoded to UTF-8 and parsed.
func (s *Session) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if resp != nil && resp.RawBody() != nil {
		defer resp.RawBody().Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrHTTPStatus, resp.StatusCode(), url)
	}

	// Pages are not always UTF-8; honor the declared or sniffed charset.
	body, err := charset.NewReader(resp.RawBody(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	return doc, nil
}
