// The command "conjscrape" builds a French conjugation table from Wiktionary.
//
// It reads a list of infinitives (one per line), fetches the mobile
// "Conjugaison:français/<verbe>" page of each one, extracts the indicatif,
// subjonctif and conditionnel tables with their IPA transcriptions, and
// writes one headerless CSV row per (verb, mood, tense, person) to the
// output file.
//
// Example usages:
//
//	# Scrape the verbs listed in verbs.txt
//	conjscrape verbs.txt conjugations.csv
//
//	# Replay saved pages from a local directory (<dir>/<verb>.html)
//	CONJSCRAPE_SOURCE=./pages CONJSCRAPE_DELAY=0 conjscrape verbs.txt out.csv
//
// Verbs are processed one after the other, with a politeness delay between
// requests. A verb whose page cannot be fetched is reported on stderr and
// skipped; the run goes on.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanyu/conjugation-scrapper/internal/config"
	"github.com/ivanyu/conjugation-scrapper/internal/logging"
	"github.com/ivanyu/conjugation-scrapper/pkg/conjugation"
	"github.com/ivanyu/conjugation-scrapper/pkg/csvexport"
	"github.com/ivanyu/conjugation-scrapper/pkg/scraper"
	"github.com/ivanyu/conjugation-scrapper/pkg/wiktionary"
)

// --- CLI help / usage -------------------------------------------------------

const helpText = `conjscrape - French verb conjugation scraper for Wiktionary

Usage:
  conjscrape help
      Print this help message.

  conjscrape <input_file> <output_file>
      input_file:  text file with one verb per line (blank lines ignored)
      output_file: CSV file to write conjugations to

Output columns (no header row):
  ID, Infinitive, Conjugated form, Transcription, Mood, Tense, Person
  Example:
      être - indicatif - présent - première_singulier,être,suis,\ʒə sɥi\,indicatif,présent,première_singulier

Environment:
  CONJSCRAPE_SOURCE           base URL or directory of saved <verb>.html pages
                              (default https://fr.m.wiktionary.org/wiki/Conjugaison:français/)
  CONJSCRAPE_USER_AGENT       User-Agent header for HTTP requests
  CONJSCRAPE_TIMEOUT          per-request timeout (default 10s)
  CONJSCRAPE_DELAY            delay between two requests (default 500ms)
  CONJSCRAPE_COMPOUND_TENSES  also extract the indicatif passé composé (default true)
  LOG_LEVEL                   debug, info, warn or error (default info)
  LOG_FORMAT                  text or json (default text)
`

// printUsage writes the CLI help text to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, helpText, "\n")
}

// --- CLI wiring -------------------------------------------------------------

// runConfig holds the two positional arguments.
type runConfig struct {
	InputPath  string
	OutputPath string
}

// run executes a scrape according to rc and cfg.
func run(ctx context.Context, rc runConfig, cfg *config.Config) error {
	in, err := os.Open(rc.InputPath)
	if err != nil {
		return fmt.Errorf("input file %q: %w", rc.InputPath, err)
	}
	verbs, err := scraper.ReadVerbs(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("read %q: %w", rc.InputPath, err)
	}

	out, err := os.Create(rc.OutputPath)
	if err != nil {
		return fmt.Errorf("output file %q: %w", rc.OutputPath, err)
	}
	defer out.Close()

	logger := logging.New(cfg.Log, os.Stderr)

	client := wiktionary.NewClient(wiktionary.Options{
		Source:    cfg.Scrape.Source,
		UserAgent: cfg.Scrape.UserAgent,
		Timeout:   cfg.Scrape.Timeout,
	}, logger)
	extractor := conjugation.NewExtractor(conjugation.DefaultTenses(cfg.Scrape.CompoundTenses), logger)
	assembler := conjugation.NewAssembler(extractor, conjugation.NewDeduper())

	runner := scraper.NewRunner(client, assembler, wiktionary.NewPacer(cfg.Scrape.Delay), logger)
	runner.Progress = func(done, total int, stats scraper.Stats) {
		fmt.Fprintf(os.Stderr,
			"\rScraping... verbs: %d/%d (records: %d, skipped: %d)",
			done, total, stats.Records, stats.Skipped)
	}

	writer := csvexport.NewWriter(out)
	stats, err := runner.Run(ctx, verbs, writer)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "\nInterrupted after %d verbs; %d conjugations written to %s\n",
				stats.Verbs, stats.Records, rc.OutputPath)
		}
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", rc.OutputPath, err)
	}

	fmt.Fprintf(os.Stderr,
		"\rFinished. Verbs: %d (skipped: %d, empty: %d, duplicates dropped: %d, elapsed: %.3f seconds)\n",
		stats.Verbs, stats.Skipped, stats.Empty, stats.Duplicates, stats.Elapsed.Seconds())
	fmt.Printf("Conjugations written to %s\n", rc.OutputPath)
	fmt.Printf("Total unique conjugations: %d\n", writer.Rows())
	return nil
}

func main() {
	if len(os.Args) == 2 {
		switch os.Args[1] {
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			return
		}
	}
	if len(os.Args) != 3 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := runConfig{InputPath: os.Args[1], OutputPath: os.Args[2]}
	if err := run(ctx, rc, cfg); err != nil {
		stop()
		log.Fatal(err)
	}
}
