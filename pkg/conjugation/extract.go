package conjugation

import (
	"log/slog"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFC and rewrites apostrophe variants to U+0027.
func Normalize(s string) string {
	return NormalizeApostrophes(norm.NFC.String(s))
}

// Extractor turns a conjugation page into records for a fixed tense set.
type Extractor struct {
	tenses []TenseSpec
	log    *slog.Logger
}

// NewExtractor creates an Extractor for tenses, in the given order.
func NewExtractor(tenses []TenseSpec, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		tenses: tenses,
		log:    logger.With("component", "extractor"),
	}
}

// Tenses returns the configured tense set.
func (e *Extractor) Tenses() []TenseSpec { return e.tenses }

// Extract returns the records of infinitive found in doc, ordered by tense
// set then slot. Missing tables and unreadable rows are skipped; the
// result may be empty.
func (e *Extractor) Extract(infinitive string, doc *html.Node) []Record {
	page := ScanPage(doc)
	if page.Len() == 0 && len(page.impersonal) == 0 {
		e.log.Debug("no conjugation section", slog.String("verb", infinitive))
		return nil
	}

	var out []Record
	for _, spec := range e.tenses {
		entries := spec.Strategy.entries(page, spec)
		if len(entries) == 0 {
			e.log.Debug("tense not found",
				slog.String("verb", infinitive),
				slog.String("mood", string(spec.Mood)),
				slog.String("tense", string(spec.Tense)),
				slog.String("strategy", spec.Strategy.String()))
			continue
		}
		for _, en := range entries {
			out = append(out, newRecord(infinitive, spec, en))
		}
	}
	return out
}

// Deduper remembers the keys emitted during a run.
type Deduper struct {
	seen map[Key]struct{}
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[Key]struct{})}
}

// Filter returns the records whose key was not seen before, in order, and
// marks them as seen.
func (d *Deduper) Filter(records []Record) []Record {
	out := records[:0:0]
	for _, r := range records {
		k := r.Key()
		if _, ok := d.seen[k]; ok {
			continue
		}
		d.seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Seen reports whether k was already emitted.
func (d *Deduper) Seen(k Key) bool {
	_, ok := d.seen[k]
	return ok
}

// Len returns the number of distinct keys emitted.
func (d *Deduper) Len() int { return len(d.seen) }

// Assembler extracts a verb's records and drops those already emitted.
type Assembler struct {
	extractor *Extractor
	dedup     *Deduper
}

// NewAssembler ties an Extractor to a Deduper owned for the whole run.
func NewAssembler(extractor *Extractor, dedup *Deduper) *Assembler {
	if dedup == nil {
		dedup = NewDeduper()
	}
	return &Assembler{extractor: extractor, dedup: dedup}
}

// Assemble returns the new records of infinitive and the number of
// duplicates dropped.
func (a *Assembler) Assemble(infinitive string, doc *html.Node) ([]Record, int) {
	records := a.extractor.Extract(infinitive, doc)
	kept := a.dedup.Filter(records)
	return kept, len(records) - len(kept)
}

// Deduper returns the seen-key set of the run.
func (a *Assembler) Deduper() *Deduper { return a.dedup }
