package feeds

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedKeysAndFiles(t *testing.T) {
	tests := []struct {
		feed Feed
		key  string
		file string
	}{
		{Medals, "medals", "medals.json"},
		{News, "articles", "news.json"},
		{Highlights, "highlights", "highlights.json"},
		{Schedule, "events", "schedule.json"},
	}

	for _, tt := range tests {
		t.Run(string(tt.feed), func(t *testing.T) {
			assert.Equal(t, tt.key, tt.feed.Key())
			assert.Equal(t, tt.file, tt.feed.FileName())
			assert.True(t, tt.feed.Valid())
		})
	}

	assert.False(t, Feed("weather").Valid())
}

func TestParseFeed(t *testing.T) {
	f, err := ParseFeed("news")
	require.NoError(t, err)
	assert.Equal(t, News, f)

	f, err = ParseFeed("schedule.json")
	require.NoError(t, err)
	assert.Equal(t, Schedule, f)

	_, err = ParseFeed("weather.json")
	assert.Error(t, err)
}

// TestCaptureTime verifies UTC millisecond precision
func TestCaptureTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2026, 2, 7, 12, 30, 0, 123456789, loc)

	got := CaptureTime(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123000000, got.Nanosecond())
	assert.True(t, got.Equal(in.Truncate(time.Millisecond)))
}

// TestSnapshotEnvelopeShape verifies the persisted JSON keys
func TestSnapshotEnvelopeShape(t *testing.T) {
	snap := NewsSnapshot{
		LastUpdated: time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC),
		Articles:    []NewsArticle{{ID: "news-1-0", Title: "Untitled", Category: "general"}},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "lastUpdated")
	assert.Contains(t, raw, "articles")
	assert.JSONEq(t, `"2026-02-07T10:00:00Z"`, string(raw["lastUpdated"]))
}

// TestHighlightResultOmitted verifies the optional result field
func TestHighlightResultOmitted(t *testing.T) {
	data, err := json.Marshal(Highlight{Sport: "Curling"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"result"`)
}

func TestFindKorea(t *testing.T) {
	standings := []MedalStanding{
		{Rank: 1, CountryCode: "NO"},
		{Rank: 2, CountryCode: "KOR", Gold: 3},
	}

	korea := FindKorea(standings)
	require.NotNil(t, korea)
	assert.Equal(t, 2, korea.Rank)
	assert.Equal(t, 3, korea.Gold)

	assert.Nil(t, FindKorea(standings[:1]))
	assert.Nil(t, FindKorea(nil))
}

func TestPlaceholderKorea(t *testing.T) {
	assert.Equal(t, "KR", PlaceholderKorea.CountryCode)
	assert.Equal(t, "🇰🇷", PlaceholderKorea.Flag)
	assert.Zero(t, PlaceholderKorea.Total)
}
