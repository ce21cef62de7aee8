package rating

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapsLink = "https://maps.example/playhouse"

func newPlacesServer(t *testing.T, body string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "rating,user_ratings_total", r.URL.Query().Get("fields"))
		assert.Equal(t, "place-1", r.URL.Query().Get("place_id"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(t *testing.T, baseURL string) GoogleConfig {
	return GoogleConfig{
		APIKey:         "key",
		PlaceID:        "place-1",
		MapsLink:       mapsLink,
		CacheFile:      filepath.Join(t.TempDir(), "cache.json"),
		CacheTTL:       4 * time.Hour,
		Timeout:        time.Second,
		FailureBackoff: time.Minute,
		BaseURL:        baseURL,
	}
}

func TestFetch_NoAPIKey(t *testing.T) {
	g := NewGooglePlaces(GoogleConfig{MapsLink: mapsLink}, nil)
	r := g.Fetch(context.Background())
	require.NotNil(t, r)
	assert.Nil(t, r.Rating)
	assert.Nil(t, r.Count)
	assert.Equal(t, mapsLink, r.Link)

	assert.Nil(t, NewGooglePlaces(GoogleConfig{}, nil).Fetch(context.Background()))
}

func TestFetch_LiveThenCached(t *testing.T) {
	srv, calls := newPlacesServer(t, `{"result":{"rating":4.9,"user_ratings_total":27},"status":"OK"}`, http.StatusOK)
	cfg := testConfig(t, srv.URL)
	g := NewGooglePlaces(cfg, nil)

	r := g.Fetch(context.Background())
	require.NotNil(t, r)
	require.NotNil(t, r.Rating)
	require.NotNil(t, r.Count)
	assert.InDelta(t, 4.9, *r.Rating, 0.001)
	assert.Equal(t, 27, *r.Count)
	assert.Equal(t, mapsLink, r.Link)

	_ = g.Fetch(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// a fresh provider reads the file cache instead of calling upstream
	g2 := NewGooglePlaces(cfg, nil)
	r2 := g2.Fetch(context.Background())
	require.NotNil(t, r2)
	assert.InDelta(t, 4.9, *r2.Rating, 0.001)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetch_CacheExpires(t *testing.T) {
	srv, calls := newPlacesServer(t, `{"result":{"rating":4.5,"user_ratings_total":3}}`, http.StatusOK)
	g := NewGooglePlaces(testConfig(t, srv.URL), nil)

	now := time.Now()
	g.now = func() time.Time { return now }
	_ = g.Fetch(context.Background())

	now = now.Add(5 * time.Hour)
	_ = g.Fetch(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestFetch_FailureFallsBackToLink(t *testing.T) {
	srv, calls := newPlacesServer(t, `oops`, http.StatusInternalServerError)
	g := NewGooglePlaces(testConfig(t, srv.URL), nil)

	r := g.Fetch(context.Background())
	require.NotNil(t, r)
	assert.Nil(t, r.Rating)
	assert.Equal(t, mapsLink, r.Link)

	// backoff: second call does not hit upstream
	_ = g.Fetch(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetch_MalformedBody(t *testing.T) {
	srv, _ := newPlacesServer(t, `{not json`, http.StatusOK)
	cfg := testConfig(t, srv.URL)
	cfg.MapsLink = ""
	g := NewGooglePlaces(cfg, nil)

	assert.Nil(t, g.Fetch(context.Background()))
	_, err := os.Stat(cfg.CacheFile)
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	g := NewGooglePlaces(cfg, nil)

	start := time.Now()
	r := g.Fetch(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, r)
	assert.Equal(t, mapsLink, r.Link)
}

func TestFetch_CallerCancelDoesNotBackOff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"result":{"rating":4.7,"user_ratings_total":12},"status":"OK"}`))
	}))
	defer srv.Close()
	g := NewGooglePlaces(testConfig(t, srv.URL), nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	first := g.Fetch(ctx)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	require.NotNil(t, first)
	assert.Nil(t, first.Rating)
	assert.Equal(t, mapsLink, first.Link)

	r := g.Fetch(context.Background())
	require.NotNil(t, r)
	require.NotNil(t, r.Rating)
	assert.InDelta(t, 4.7, *r.Rating, 0.001)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFileCache_IgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	c := NewFileCache(path, time.Hour)
	_, ok := c.Get(time.Now())
	assert.False(t, ok)
}
