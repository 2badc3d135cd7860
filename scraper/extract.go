package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the text of the first element matched by the candidate
// selectors, tried in order. Whitespace is trimmed and internal runs are
// collapsed to single spaces. If no candidate yields non-empty text, def is
// returned.
func Text(root *goquery.Selection, selectors []string, def string) string {
	for _, sel := range selectors {
		match := root.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if text := normalizeSpace(match.Text()); text != "" {
			return text
		}
	}
	return def
}

// Attr returns the named attribute of the first element matched by the
// candidate selectors, tried in order. If no candidate carries a non-empty
// value for the attribute, def is returned.
func Attr(root *goquery.Selection, selectors []string, attr, def string) string {
	for _, sel := range selectors {
		match := root.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if value, ok := match.Attr(attr); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return def
}

// OwnText returns the normalized text of the selection itself, or def when
// it is empty.
func OwnText(s *goquery.Selection, def string) string {
	if text := normalizeSpace(s.Text()); text != "" {
		return text
	}
	return def
}

// Items returns the elements matching selector under root in document order,
// keeping at most max of them. A max of zero or less keeps every match.
func Items(root *goquery.Selection, selector string, max int) []*goquery.Selection {
	var items []*goquery.Selection
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if max > 0 && len(items) >= max {
			return false
		}
		items = append(items, s)
		return true
	})
	return items
}

// normalizeSpace replaces runs of whitespace with a single space and trims
// the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
