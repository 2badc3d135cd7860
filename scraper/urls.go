package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// Absolutize rewrites a link found on a page into an absolute URL. Links that
// already carry an http or https scheme are returned unchanged. Anything else
// is resolved against origin and normalized. An empty link stays empty.
func Absolutize(origin, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}

	base, err := url.Parse(origin)
	if err != nil {
		return strings.TrimRight(origin, "/") + ensureLeadingSlash(link)
	}
	ref, err := url.Parse(link)
	if err != nil {
		return strings.TrimRight(origin, "/") + ensureLeadingSlash(link)
	}

	return purell.NormalizeURL(
		base.ResolveReference(ref),
		purell.FlagsSafe|purell.FlagRemoveDotSegments|purell.FlagRemoveDuplicateSlashes,
	)
}

// Origin returns the scheme and host of a URL, e.g. https://example.com.
func Origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func ensureLeadingSlash(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}
