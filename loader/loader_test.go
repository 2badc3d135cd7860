package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/olympichub/feeds"
	"github.com/pevans/olympichub/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Test helper: serve a snapshot store the way the API server does
func setupSnapshotServer(t *testing.T) (*httptest.Server, *snapshot.Store) {
	store, err := snapshot.NewStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	router := gin.New()
	snapshot.NewAPIServer(store).RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store
}

// TestFetch_RoundTrip verifies what the writer persists is what the loader
// returns
func TestFetch_RoundTrip(t *testing.T) {
	server, store := setupSnapshotServer(t)
	captured := feeds.CaptureTime(time.Now())

	medals := feeds.MedalsSnapshot{
		LastUpdated: captured,
		Medals: []feeds.MedalStanding{
			{Rank: 1, Country: "Norway", CountryCode: "NO", Flag: "🇳🇴", Gold: 2, Total: 2},
			{Rank: 2, Country: "South Korea", CountryCode: "KR", Flag: "🇰🇷", Bronze: 1, Total: 1},
		},
	}
	news := feeds.NewsSnapshot{
		LastUpdated: captured,
		Articles:    []feeds.NewsArticle{{ID: "news-1-0", Title: "Untitled", PublishedAt: captured, Category: "general"}},
	}
	highlights := feeds.HighlightsSnapshot{
		LastUpdated: captured,
		Highlights:  []feeds.Highlight{{Sport: "Luge", Result: "1:42.3", Time: captured}},
	}
	schedule := feeds.ScheduleSnapshot{
		LastUpdated: captured,
		Events:      []feeds.ScheduleEvent{{Time: "10:00", Status: feeds.StatusLive}},
	}
	require.NoError(t, store.Write(feeds.Medals, medals))
	require.NoError(t, store.Write(feeds.News, news))
	require.NoError(t, store.Write(feeds.Highlights, highlights))
	require.NoError(t, store.Write(feeds.Schedule, schedule))

	client := NewClient(server.URL, time.Second, nil)
	ctx := context.Background()

	gotMedals := client.Medals(ctx)
	require.NotNil(t, gotMedals)
	assert.True(t, captured.Equal(gotMedals.LastUpdated))
	assert.Equal(t, medals.Medals, gotMedals.Medals)
	assert.NotNil(t, feeds.FindKorea(gotMedals.Medals))

	gotNews := client.News(ctx)
	require.NotNil(t, gotNews)
	require.Len(t, gotNews.Articles, 1)
	assert.Equal(t, news.Articles[0].ID, gotNews.Articles[0].ID)
	assert.True(t, captured.Equal(gotNews.Articles[0].PublishedAt))

	gotHighlights := client.Highlights(ctx)
	require.NotNil(t, gotHighlights)
	assert.Equal(t, "1:42.3", gotHighlights.Highlights[0].Result)

	gotSchedule := client.Schedule(ctx)
	require.NotNil(t, gotSchedule)
	assert.Equal(t, schedule.Events, gotSchedule.Events)
}

// TestFetch_MissingSnapshot verifies a 404 yields nil
func TestFetch_MissingSnapshot(t *testing.T) {
	server, _ := setupSnapshotServer(t)
	client := NewClient(server.URL, time.Second, nil)

	assert.Nil(t, client.Medals(context.Background()))
}

func TestFetch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lastUpdated": "not-a-time", "medals": `))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)

	assert.Nil(t, client.Medals(context.Background()))
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, 200*time.Millisecond, nil)

	assert.Nil(t, client.Schedule(context.Background()))
}

// TestFetch_BypassesCaches verifies cache-busting request headers
func TestFetch_BypassesCaches(t *testing.T) {
	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case headers <- r.Header.Clone():
		default:
		}
		assert.Equal(t, "/data/highlights.json", r.URL.Path)
		w.Write([]byte(`{"lastUpdated":"2026-02-10T10:00:00Z","highlights":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second, nil)
	got := client.Highlights(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got.Highlights)

	h := <-headers
	assert.Equal(t, "no-cache, no-store", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
}

func TestCached_Fresh(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	c := NewCached(feeds.MedalsSnapshot{}, now)

	assert.True(t, c.Fresh(now.Add(4*time.Minute), DefaultTTL))
	assert.False(t, c.Fresh(now.Add(5*time.Minute), DefaultTTL))
	assert.False(t, c.Fresh(now.Add(time.Hour), DefaultTTL))

	var zero Cached[*feeds.NewsSnapshot]
	assert.False(t, zero.Fresh(now, DefaultTTL))
}

// TestPoll_RunsImmediatelyThenOnInterval verifies the polling cadence and
// cancellation
func TestPoll_RunsImmediatelyThenOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan struct{})
	go func() {
		defer close(done)
		Poll(ctx, 10*time.Millisecond, func(context.Context) {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Poll did not stop after cancellation")
	}
	assert.Equal(t, int32(3), calls.Load())
}
