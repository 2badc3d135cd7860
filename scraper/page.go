package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is a parsed document loaded by a Session.
type Page struct {
	session *Session
	url     string
	doc     *goquery.Document
}

// URL returns the address the page was loaded from.
func (p *Page) URL() string {
	return p.url
}

// Document returns the current parsed document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Has reports whether selector matches anything on the page.
func (p *Page) Has(selector string) bool {
	return p.doc.Find(selector).Length() > 0
}

// Items returns up to max elements matching selector in document order.
func (p *Page) Items(selector string, max int) []*goquery.Selection {
	return Items(p.doc.Selection, selector, max)
}

// WaitFor blocks until selector matches, reloading the page at the session's
// pace while it does not. It returns ErrNotReady once timeout elapses.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for {
		if p.Has(selector) {
			return nil
		}

		timer := time.NewTimer(p.session.interval)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			if lastErr != nil {
				return fmt.Errorf("%w: %q within %s (last reload: %v)", ErrNotReady, selector, timeout, lastErr)
			}
			return fmt.Errorf("%w: %q within %s", ErrNotReady, selector, timeout)
		case <-timer.C:
		}

		// A failed reload keeps the previous document; keep waiting.
		if err := p.load(waitCtx, 0); err != nil {
			lastErr = err
		}
	}
}

func (p *Page) load(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	doc, err := p.session.fetch(ctx, p.url)
	if err != nil {
		return err
	}
	p.doc = doc
	return nil
}
