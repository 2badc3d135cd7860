package feeds

import "time"

// MedalStanding is one row of the medal table. Rank follows source row order.
type MedalStanding struct {
	Rank        int    `json:"rank"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Flag        string `json:"flag"`
	Gold        int    `json:"gold"`
	Silver      int    `json:"silver"`
	Bronze      int    `json:"bronze"`
	Total       int    `json:"total"`
}

// NewsArticle is a headline captured from the news listing. ID is derived
// from capture time and position and is not stable across runs.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category"`
}

// Highlight is a recent result.
type Highlight struct {
	Sport       string    `json:"sport"`
	Event       string    `json:"event"`
	Winner      string    `json:"winner"`
	Country     string    `json:"country"`
	CountryCode string    `json:"countryCode"`
	Flag        string    `json:"flag"`
	Result      string    `json:"result,omitempty"`
	Time        time.Time `json:"time"`
}

// EventStatus is the state of a scheduled event.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusLive     EventStatus = "live"
	StatusFinished EventStatus = "finished"
)

// ScheduleEvent is one entry of the competition schedule. Time is the raw
// label shown on the page.
type ScheduleEvent struct {
	Time   string      `json:"time"`
	Sport  string      `json:"sport"`
	Event  string      `json:"event"`
	Venue  string      `json:"venue"`
	Status EventStatus `json:"status"`
}

// MedalsSnapshot is the persisted shape of medals.json.
type MedalsSnapshot struct {
	LastUpdated time.Time       `json:"lastUpdated"`
	Medals      []MedalStanding `json:"medals"`
}

// NewsSnapshot is the persisted shape of news.json.
type NewsSnapshot struct {
	LastUpdated time.Time     `json:"lastUpdated"`
	Articles    []NewsArticle `json:"articles"`
}

// HighlightsSnapshot is the persisted shape of highlights.json.
type HighlightsSnapshot struct {
	LastUpdated time.Time   `json:"lastUpdated"`
	Highlights  []Highlight `json:"highlights"`
}

// ScheduleSnapshot is the persisted shape of schedule.json.
type ScheduleSnapshot struct {
	LastUpdated time.Time       `json:"lastUpdated"`
	Events      []ScheduleEvent `json:"events"`
}
