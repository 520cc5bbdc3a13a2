package wiktionary

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"github.com/ivanyu/conjugation-scrapper/pkg/htmlq"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const page = `<html><body><h2>Indicatif</h2><table><tr><th>Présent</th></tr></table></body></html>`

func TestClient_FetchHTTP(t *testing.T) {
	t.Parallel()

	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	c := NewClient(Options{Source: srv.URL + "/wiki/Conjugaison:français/", UserAgent: "test-agent"}, newTestLogger())
	doc, err := c.Fetch(context.Background(), "être")
	require.NoError(t, err)

	h := htmlq.Find(doc, htmlq.IsElement(atom.H2))
	require.NotNil(t, h)
	assert.Equal(t, "Indicatif", htmlq.CleanText(h))
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "/wiki/Conjugaison:français/être", gotPath)
}

func TestClient_PageURL(t *testing.T) {
	t.Parallel()

	c := NewClient(Options{}, newTestLogger())
	assert.Equal(t, DefaultSource+"%C3%AAtre", c.PageURL("être"))
	assert.Equal(t, DefaultSource+"s%E2%80%99asseoir", c.PageURL("s’asseoir"))

	local := NewClient(Options{Source: "pages"}, newTestLogger())
	assert.Equal(t, filepath.Join("pages", "voir.html"), local.PageURL("voir"))
}

func TestClient_FetchNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(Options{Source: srv.URL + "/"}, newTestLogger())
	_, err := c.Fetch(context.Background(), "zorglubiser")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"zorglubiser"`)
}

func TestClient_FetchStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{Source: srv.URL + "/"}, newTestLogger())
	_, err := c.Fetch(context.Background(), "voir")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_FetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{Source: srv.URL + "/", Timeout: 50 * time.Millisecond}, newTestLogger())
	_, err := c.Fetch(context.Background(), "voir")
	require.Error(t, err)
}

func TestClient_FetchLocalDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "être.html"), []byte(page), 0o644))

	c := NewClient(Options{Source: dir}, newTestLogger())
	doc, err := c.Fetch(context.Background(), "être")
	require.NoError(t, err)
	assert.NotNil(t, htmlq.Find(doc, htmlq.IsElement(atom.Table)))

	_, err = c.Fetch(context.Background(), "voir")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Fetch(context.Background(), "../secret")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_FetchLocalGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "voir.html.gz"))
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(page))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	c := NewClient(Options{Source: dir}, newTestLogger())
	doc, err := c.Fetch(context.Background(), "voir")
	require.NoError(t, err)
	assert.NotNil(t, htmlq.Find(doc, htmlq.IsElement(atom.H2)))
}

func TestClient_FetchTooLarge(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	c := NewClient(Options{Source: srv.URL + "/"}, newTestLogger())
	c.maxBody = int64(len(page)) - 1
	_, err := c.Fetch(context.Background(), "voir")
	assert.ErrorIs(t, err, ErrTooLarge)

	c.maxBody = int64(len(page))
	_, err = c.Fetch(context.Background(), "voir")
	assert.NoError(t, err)
}

func TestPacer_Wait(t *testing.T) {
	t.Parallel()

	p := NewPacer(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "first wait returns immediately")

	p.Done()
	start = time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPacer_DelayCountsFromFetchEnd(t *testing.T) {
	t.Parallel()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPacer(time.Hour)
	p.now = func() time.Time { return clock }

	require.NoError(t, p.Wait(context.Background()))
	// A slow fetch must not use up the delay.
	clock = clock.Add(2 * time.Hour)
	p.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)

	clock = clock.Add(time.Hour)
	assert.NoError(t, p.Wait(context.Background()))
}

func TestPacer_WaitCancelled(t *testing.T) {
	t.Parallel()

	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))
	p.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}

func TestPacer_ZeroDelay(t *testing.T) {
	t.Parallel()

	p := NewPacer(0)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background()))
		p.Done()
	}
}
