package feeds

import (
	"fmt"
	"time"
)

// Feed identifies one of the four independent data categories.
type Feed string

const (
	Medals     Feed = "medals"
	News       Feed = "news"
	Highlights Feed = "highlights"
	Schedule   Feed = "schedule"
)

// All lists every feed in the order they are reported.
var All = []Feed{Medals, News, Highlights, Schedule}

// Key returns the JSON key the feed's records are stored under in its
// snapshot envelope.
func (f Feed) Key() string {
	switch f {
	case Medals:
		return "medals"
	case News:
		return "articles"
	case Highlights:
		return "highlights"
	case Schedule:
		return "events"
	}
	return ""
}

// FileName returns the snapshot file name for the feed.
func (f Feed) FileName() string {
	return string(f) + ".json"
}

// Valid reports whether f is one of the known feeds.
func (f Feed) Valid() bool {
	return f.Key() != ""
}

// ParseFeed accepts a feed name or a snapshot file name.
func ParseFeed(s string) (Feed, error) {
	for _, f := range All {
		if s == string(f) || s == f.FileName() {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feed: %q", s)
}

// CaptureTime returns t in UTC truncated to millisecond precision, the form
// every capture timestamp is persisted in.
func CaptureTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
