// Package wiktionary retrieves French conjugation pages, either over
// HTTP(S) from the mobile Wiktionary or from a directory of saved pages.
package wiktionary

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultSource is the mobile rendering of the French conjugation namespace.
const DefaultSource = "https://fr.m.wiktionary.org/wiki/Conjugaison:français/"

const maxBodySize = 4 << 20

var (
	// ErrNotFound is returned when the source has no page for the verb.
	ErrNotFound = errors.New("page not found")
	// ErrTooLarge is returned when a page exceeds the body size limit.
	ErrTooLarge = errors.New("page exceeds size limit")
)

// StatusError is a non-200, non-404 HTTP response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP GET %s: unexpected status %s", e.URL, e.Status)
}

// Options configures a Client.
type Options struct {
	Source    string        // base URL or local directory; DefaultSource when empty
	UserAgent string        // sent on HTTP requests when non-empty
	Timeout   time.Duration // per request; 10s when zero
}

// Client fetches one page per verb. It makes a single attempt per call.
type Client struct {
	source     string
	userAgent  string
	httpClient *http.Client
	maxBody    int64
	log        *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		source:     opts.Source,
		userAgent:  opts.UserAgent,
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxBody:    maxBodySize,
		log:        logger.With("component", "wiktionary"),
	}
}

// isHTTPURL returns true if src looks like an HTTP or HTTPS URL.
func isHTTPURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// PageURL returns the location of verb's page: base URL plus the
// path-escaped verb, or "<dir>/<verb>.html" for a local source. A local
// page may also be stored gzip-compressed as "<dir>/<verb>.html.gz".
func (c *Client) PageURL(verb string) string {
	if isHTTPURL(c.source) {
		return c.source + url.PathEscape(verb)
	}
	return filepath.Join(c.source, verb+".html")
}

// Fetch retrieves and parses the conjugation page of verb.
func (c *Client) Fetch(ctx context.Context, verb string) (*html.Node, error) {
	rc, err := c.open(ctx, verb)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: fetch %q: %w", verb, err)
	}
	defer rc.Close()

	// One byte past the limit tells a truncated page from a full one.
	body := &io.LimitedReader{R: rc, N: c.maxBody + 1}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: parse %q: %w", verb, err)
	}
	if body.N == 0 {
		return nil, fmt.Errorf("wiktionary: fetch %q: %w (%d bytes)", verb, ErrTooLarge, c.maxBody)
	}
	return doc, nil
}

func (c *Client) open(ctx context.Context, verb string) (io.ReadCloser, error) {
	if strings.ContainsAny(verb, `/\`) || verb == "." || verb == ".." {
		return nil, ErrNotFound
	}
	if isHTTPURL(c.source) {
		return c.openHTTP(ctx, c.PageURL(verb))
	}
	rc, err := openLocal(c.PageURL(verb))
	if errors.Is(err, os.ErrNotExist) {
		rc, err = openLocal(c.PageURL(verb) + ".gz")
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return rc, err
}

// openLocal opens a saved page, decompressing it when the path ends with
// ".gz". The returned ReadCloser always closes the underlying file.
func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: zr,
		Closer: f,
	}, nil
}

// openHTTP performs a GET and returns the response body as a stream.
func (c *Client) openHTTP(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.DebugContext(ctx, "request", slog.String("url", pageURL))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, &StatusError{URL: pageURL, Status: resp.Status, Code: resp.StatusCode}
	}
	return resp.Body, nil
}

// Pacer spaces successive fetches by a fixed delay, counted from the end
// of the previous fetch.
type Pacer struct {
	delay time.Duration
	last  time.Time
	now   func() time.Time
}

// NewPacer creates a Pacer. A zero delay disables waiting.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, now: time.Now}
}

// Wait blocks until delay has elapsed since the last Done. It returns
// immediately when Done was never called.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 || p.last.IsZero() {
		return ctx.Err()
	}
	remaining := p.delay - p.now().Sub(p.last)
	if remaining <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(remaining)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Done marks the end of a fetch.
func (p *Pacer) Done() {
	p.last = p.now()
}
