package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: an identity that talks plain HTTP to test servers quickly
func testIdentity() Identity {
	id := DefaultIdentity()
	id.BypassChallenge = false
	id.ReloadInterval = 10 * time.Millisecond
	return id
}

// Test helper: create a session closed at test end
func newTestSession(t *testing.T) *Session {
	s, err := NewSession(testIdentity())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// TestOpen_ParsesDocumentAndSendsIdentity verifies navigation and headers
func TestOpen_ParsesDocumentAndSendsIdentity(t *testing.T) {
	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case headers <- r.Header.Clone():
		default:
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><table><tr><td>Norway</td></tr></table></body></html>`))
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL+"/medals", time.Second)
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/medals", page.URL())
	assert.True(t, page.Has("table"))
	assert.Equal(t, "Norway", page.Document().Find("td").Text())

	gotHeaders := <-headers
	id := testIdentity()
	assert.Equal(t, id.UserAgent, gotHeaders.Get("User-Agent"))
	assert.Equal(t, "1920", gotHeaders.Get("Viewport-Width"))
	assert.Equal(t, "1080", gotHeaders.Get("Sec-CH-Viewport-Height"))
	assert.Equal(t, "en-US,en;q=0.9", gotHeaders.Get("Accept-Language"))
}

// TestOpen_HTTPError verifies non-2xx responses fail navigation
func TestOpen_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL, time.Second)

	assert.Nil(t, page)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Contains(t, err.Error(), "403")
}

// TestOpen_Timeout verifies the navigation timeout bounds a slow server
func TestOpen_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	session := newTestSession(t)
	start := time.Now()
	_, err := session.Open(context.Background(), server.URL, 50*time.Millisecond)

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

// TestOpen_ConvertsCharset verifies non-UTF-8 pages are decoded
func TestOpen_ConvertsCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<html><body><h3>Caf\xe9 Cortina</h3></body></html>"))
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)

	assert.Equal(t, "Café Cortina", Text(page.Document().Selection, []string{"h3"}, ""))
}

// TestWaitFor_ReloadsUntilReady verifies the page is reloaded until the
// selector appears
func TestWaitFor_ReloadsUntilReady(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.Write([]byte(`<html><body><div class="loading"></div></body></html>`))
			return
		}
		w.Write([]byte(`<html><body><article>Ready</article></body></html>`))
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)
	require.False(t, page.Has("article"))

	err = page.WaitFor(context.Background(), "article", 2*time.Second)

	require.NoError(t, err)
	assert.True(t, page.Has("article"))
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}

// TestWaitFor_ImmediateWhenPresent verifies no reload happens when ready
func TestWaitFor_ImmediateWhenPresent(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<html><body><table></table></body></html>`))
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)

	require.NoError(t, page.WaitFor(context.Background(), "table", time.Second))
	assert.Equal(t, int32(1), hits.Load())
}

// TestWaitFor_Timeout verifies ErrNotReady when the selector never appears
func TestWaitFor_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>still loading</p></body></html>`))
	}))
	defer server.Close()

	session := newTestSession(t)
	page, err := session.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)

	err = page.WaitFor(context.Background(), ".schedule-item, .event-schedule", 100*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReady)
}

// TestSessions_IsolatedCookies verifies each session has its own jar
func TestSessions_IsolatedCookies(t *testing.T) {
	var withCookie atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("consent"); err == nil {
			withCookie.Add(1)
		}
		http.SetCookie(w, &http.Cookie{Name: "consent", Value: "yes", Path: "/"})
		w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	first := newTestSession(t)
	_, err := first.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)
	_, err = first.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int32(1), withCookie.Load(), "same session should replay its cookie")

	second := newTestSession(t)
	_, err = second.Open(context.Background(), server.URL, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int32(1), withCookie.Load(), "new session should start with an empty jar")
}
