package scraper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ivanyu/conjugation-scrapper/pkg/conjugation"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureFetcher serves pages from the conjugation testdata directory.
type fixtureFetcher struct {
	files   map[string]string
	fetched []string
}

func (f *fixtureFetcher) Fetch(_ context.Context, verb string) (*html.Node, error) {
	f.fetched = append(f.fetched, verb)
	name, ok := f.files[verb]
	if !ok {
		return nil, errors.New("not found")
	}
	fh, err := os.Open(filepath.Join("..", "conjugation", "testdata", name))
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return html.Parse(fh)
}

type memorySink struct {
	records []conjugation.Record
	batches int
	err     error
}

func (s *memorySink) Write(records []conjugation.Record) error {
	if s.err != nil {
		return s.err
	}
	s.batches++
	s.records = append(s.records, records...)
	return nil
}

// countingPacer records the order of pacing calls around fetches.
type countingPacer struct {
	calls []string
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.calls = append(p.calls, "wait")
	return ctx.Err()
}

func (p *countingPacer) Done() { p.calls = append(p.calls, "done") }

func newRunner(f Fetcher, p Pacer) *Runner {
	ex := conjugation.NewExtractor(conjugation.DefaultTenses(true), newTestLogger())
	return NewRunner(f, conjugation.NewAssembler(ex, conjugation.NewDeduper()), p, newTestLogger())
}

func newRunnerWithLogger(f Fetcher, logger *slog.Logger) *Runner {
	ex := conjugation.NewExtractor(conjugation.DefaultTenses(true), newTestLogger())
	return NewRunner(f, conjugation.NewAssembler(ex, conjugation.NewDeduper()), nil, logger)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	f := &fixtureFetcher{files: map[string]string{"être": "etre.html", "voir": "voir.html"}}
	p := &countingPacer{}
	r := newRunner(f, p)

	var progress []int
	r.Progress = func(done, total int, _ Stats) {
		assert.Equal(t, 4, total)
		progress = append(progress, done)
	}

	sink := &memorySink{}
	stats, err := r.Run(context.Background(), []string{"être", "zorglubiser", "voir", "être"}, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"être", "zorglubiser", "voir", "être"}, f.fetched)
	// Failed fetches count for pacing too.
	assert.Equal(t, []string{"wait", "done", "wait", "done", "wait", "done", "wait", "done"}, p.calls)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	assert.Equal(t, 4, stats.Verbs)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Empty)
	assert.Equal(t, 66, stats.Records)
	assert.Equal(t, 48, stats.Duplicates)
	assert.Positive(t, stats.Elapsed)

	require.Len(t, sink.records, 66)
	assert.Equal(t, 3, sink.batches)
	assert.Equal(t, "être", sink.records[0].Infinitive)
	assert.Equal(t, "voir", sink.records[65].Infinitive)
}

func TestRunner_EmptyPage(t *testing.T) {
	t.Parallel()

	f := fetcherFunc(func(context.Context, string) (*html.Node, error) {
		return html.Parse(strings.NewReader("<html><body><p>Rien</p></body></html>"))
	})
	stats, err := newRunner(f, nil).Run(context.Background(), []string{"rien"}, &memorySink{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Empty)
	assert.Zero(t, stats.Records)
}

func TestRunner_InfoLogStaysQuietOnSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	f := &fixtureFetcher{files: map[string]string{"voir": "voir.html"}}

	_, err := newRunnerWithLogger(f, logger).Run(context.Background(), []string{"voir"}, &memorySink{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestRunner_SinkErrorStops(t *testing.T) {
	t.Parallel()

	f := &fixtureFetcher{files: map[string]string{"être": "etre.html", "voir": "voir.html"}}
	sink := &memorySink{err: errors.New("disk full")}

	_, err := newRunner(f, nil).Run(context.Background(), []string{"être", "voir"}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `write "être"`)
	assert.Equal(t, []string{"être"}, f.fetched)
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	f := fetcherFunc(func(context.Context, string) (*html.Node, error) {
		cancel()
		return nil, context.Canceled
	})

	stats, err := newRunner(f, &countingPacer{}).Run(ctx, []string{"être", "voir"}, &memorySink{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Verbs)
	assert.Zero(t, stats.Skipped)
}

type fetcherFunc func(ctx context.Context, verb string) (*html.Node, error)

func (f fetcherFunc) Fetch(ctx context.Context, verb string) (*html.Node, error) { return f(ctx, verb) }

func TestReadVerbs(t *testing.T) {
	t.Parallel()

	in := "\ufeffêtre\n\n  voir  \r\n\t\ns'asseoir\n"
	verbs, err := ReadVerbs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"être", "voir", "s'asseoir"}, verbs)

	verbs, err = ReadVerbs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, verbs)
}
