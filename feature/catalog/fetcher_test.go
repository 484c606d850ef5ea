package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(maxPages int) Config {
	return Config{
		BaseURL:               "http://unused/",
		PageDelayMS:           0,
		MaxPages:              maxPages,
		RequestTimeoutSeconds: 5,
		UserAgent:             "filament-sync-test",
	}
}

// pagedServer serves n pages; page i links to page i+1 and the last links to null.
func pagedServer(t *testing.T, n int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		var page int
		_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page == 0 {
			page = 1
		}
		next := "null"
		if page < n {
			next = fmt.Sprintf("%q", fmt.Sprintf("%s/?page=%d", srv.URL, page+1))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"count": %d, "next": %s, "previous": null, "results": [{"id": %d}]}`, n, next, page)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func collectPages(t *testing.T, walk *Walk) ([]*Page, error) {
	t.Helper()
	var pages []*Page
	for page, err := range walk.Pages(context.Background()) {
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func TestPages_StopsOnNullCursor(t *testing.T) {
	srv, hits := pagedServer(t, 3)
	f := NewFetcher(testConfig(10), zap.NewNop(), nil)

	walk := f.Walk(srv.URL + "/")
	pages, err := collectPages(t, walk)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 1, pages[0].Index)
	assert.Equal(t, 3, pages[2].Index)
	assert.Nil(t, pages[2].Next)
	assert.Len(t, pages[1].Results, 1)
	assert.False(t, walk.Truncated())
	assert.Equal(t, 3, walk.Fetched())
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestPages_PageCeiling(t *testing.T) {
	srv, hits := pagedServer(t, 10)
	f := NewFetcher(testConfig(4), zap.NewNop(), nil)

	walk := f.Walk(srv.URL + "/")
	pages, err := collectPages(t, walk)

	require.NoError(t, err)
	assert.Len(t, pages, 4)
	assert.True(t, walk.Truncated())
	assert.Equal(t, int32(4), atomic.LoadInt32(hits))
}

func TestPages_CursorCycle(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always points back at the first page.
		fmt.Fprintf(w, `{"count": 1, "next": %q, "results": []}`, srv.URL+"/")
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(100), zap.NewNop(), nil)
	walk := f.Walk(srv.URL + "/")
	pages, err := collectPages(t, walk)

	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.True(t, walk.Truncated())
}

func TestPages_NonSuccessStatus(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"count": 2, "next": %q, "results": [{"id": 1}]}`, srv.URL+"/?page=2")
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(10), zap.NewNop(), nil)
	pages, err := collectPages(t, f.Walk(srv.URL+"/"))

	assert.Len(t, pages, 1)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Page)
	assert.Equal(t, http.StatusBadGateway, fe.Status)
	assert.Equal(t, srv.URL+"/?page=2", fe.URL)
}

func TestPages_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL + "/"
	srv.Close()

	f := NewFetcher(testConfig(10), zap.NewNop(), nil)
	_, err := collectPages(t, f.Walk(url))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Page)
	assert.Equal(t, 0, fe.Status)
}

func TestPages_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count": 1, "results": [`)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(10), zap.NewNop(), nil)
	_, err := collectPages(t, f.Walk(srv.URL+"/"))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusOK, fe.Status)
}

func TestPages_Consumed(t *testing.T) {
	srv, _ := pagedServer(t, 1)
	f := NewFetcher(testConfig(10), zap.NewNop(), nil)
	walk := f.Walk(srv.URL + "/")

	_, err := collectPages(t, walk)
	require.NoError(t, err)

	_, err = collectPages(t, walk)
	assert.ErrorIs(t, err, ErrWalkConsumed)
}

func TestPages_PolitenessDelay(t *testing.T) {
	srv, _ := pagedServer(t, 3)
	cfg := testConfig(10)
	cfg.PageDelayMS = 50
	f := NewFetcher(cfg, zap.NewNop(), nil)

	start := time.Now()
	pages, err := collectPages(t, f.Walk(srv.URL+"/"))
	require.NoError(t, err)
	require.Len(t, pages, 3)

	// Two gaps between three requests.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestPages_DelayCountsFromResponseEnd(t *testing.T) {
	const (
		serve = 150 * time.Millisecond
		delay = 100 * time.Millisecond
	)

	var mu sync.Mutex
	var arrived, finished []time.Time
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrived = append(arrived, time.Now())
		n := len(arrived)
		mu.Unlock()

		time.Sleep(serve)
		next := "null"
		if n < 3 {
			next = fmt.Sprintf("%q", fmt.Sprintf("%s/?page=%d", srv.URL, n+1))
		}

		// Recorded before the body is written, so the client sees the end later.
		mu.Lock()
		finished = append(finished, time.Now())
		mu.Unlock()

		fmt.Fprintf(w, `{"count": 3, "next": %s, "previous": null, "results": []}`, next)
	}))
	defer srv.Close()

	cfg := testConfig(10)
	cfg.PageDelayMS = int(delay / time.Millisecond)
	f := NewFetcher(cfg, zap.NewNop(), nil)

	pages, err := collectPages(t, f.Walk(srv.URL+"/"))
	require.NoError(t, err)
	require.Len(t, pages, 3)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrived, 3)
	for i := 1; i < len(arrived); i++ {
		gap := arrived[i].Sub(finished[i-1])
		assert.GreaterOrEqual(t, gap, delay, "gap before request %d", i+1)
	}
}

func TestPages_CancelledWhileWaiting(t *testing.T) {
	srv, hits := pagedServer(t, 5)
	cfg := testConfig(10)
	cfg.PageDelayMS = 10_000
	f := NewFetcher(cfg, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var pages int
	var lastErr error
	for _, err := range f.Walk(srv.URL + "/").Pages(ctx) {
		if err != nil {
			lastErr = err
			break
		}
		pages++
		cancel()
	}

	assert.Equal(t, 1, pages)
	assert.ErrorIs(t, lastErr, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestPages_BreakerOpens(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(10), zap.NewNop(), nil)
	for i := 0; i < breakerFailures+2; i++ {
		_, err := collectPages(t, f.Walk(srv.URL+"/"))
		require.Error(t, err)
	}

	assert.Equal(t, int32(breakerFailures), atomic.LoadInt32(&hits))
}

func TestConfig_Validate(t *testing.T) {
	good := Config{BaseURL: "https://example.com/api/", MaxPages: 1, RequestTimeoutSeconds: 1}
	assert.NoError(t, good.Validate())

	bad := good
	bad.MaxPages = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.BaseURL = "not a url"
	assert.Error(t, bad.Validate())

	bad = good
	bad.PageDelayMS = -1
	assert.Error(t, bad.Validate())
}
