// Package scraper drives a conjugation run: one verb at a time, in input
// order, fetch then extract then write.
package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ivanyu/conjugation-scrapper/pkg/conjugation"
)

// Fetcher retrieves the parsed page of a verb.
type Fetcher interface {
	Fetch(ctx context.Context, verb string) (*html.Node, error)
}

// Sink receives the records of each verb as one batch.
type Sink interface {
	Write(records []conjugation.Record) error
}

// Pacer applies the politeness delay: Wait before each fetch, Done once
// the fetch has finished.
type Pacer interface {
	Wait(ctx context.Context) error
	Done()
}

// Stats summarizes a run.
type Stats struct {
	Verbs      int // verbs attempted
	Skipped    int // verbs whose page could not be fetched
	Empty      int // verbs fetched but yielding no record
	Records    int // unique records written
	Duplicates int // records dropped as duplicates
	Elapsed    time.Duration
}

// Runner processes a verb list sequentially.
type Runner struct {
	fetcher   Fetcher
	assembler *conjugation.Assembler
	pacer     Pacer
	log       *slog.Logger

	// Progress, when set, is called after each verb.
	Progress func(done, total int, stats Stats)
}

// NewRunner creates a Runner. pacer may be nil for no delay.
func NewRunner(fetcher Fetcher, assembler *conjugation.Assembler, pacer Pacer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher:   fetcher,
		assembler: assembler,
		pacer:     pacer,
		log:       logger.With("component", "runner"),
	}
}

// Run processes verbs and writes each verb's new records to sink. A verb
// that cannot be fetched is logged and skipped. A sink error or context
// cancellation stops the run; records written before remain in the sink.
func (r *Runner) Run(ctx context.Context, verbs []string, sink Sink) (stats Stats, err error) {
	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start) }()

	for i, verb := range verbs {
		if r.pacer != nil {
			if err := r.pacer.Wait(ctx); err != nil {
				return stats, err
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Verbs++
		r.log.DebugContext(ctx, "scraping conjugations", slog.String("verb", verb))

		doc, ferr := r.fetcher.Fetch(ctx, verb)
		if r.pacer != nil {
			r.pacer.Done()
		}
		if ferr != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Skipped++
			r.log.WarnContext(ctx, "skipping verb", slog.String("verb", verb), slog.String("error", ferr.Error()))
			r.progress(i+1, len(verbs), stats)
			continue
		}

		records, dups := r.assembler.Assemble(verb, doc)
		stats.Duplicates += dups
		if len(records) == 0 && dups == 0 {
			stats.Empty++
			r.log.WarnContext(ctx, "no conjugation found", slog.String("verb", verb))
		}
		if err := sink.Write(records); err != nil {
			return stats, fmt.Errorf("scraper: write %q: %w", verb, err)
		}
		stats.Records += len(records)
		r.progress(i+1, len(verbs), stats)
	}
	return stats, nil
}

func (r *Runner) progress(done, total int, stats Stats) {
	if r.Progress != nil {
		r.Progress(done, total, stats)
	}
}

// ReadVerbs reads one verb per line, trimming spaces and skipping blank
// lines. A UTF-8 byte order mark on the first line is dropped.
func ReadVerbs(rd io.Reader) ([]string, error) {
	var verbs []string
	scanner := bufio.NewScanner(rd)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if v := strings.TrimSpace(line); v != "" {
			verbs = append(verbs, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return verbs, nil
}
