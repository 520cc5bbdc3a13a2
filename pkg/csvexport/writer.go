// Package csvexport writes conjugation records as headerless CSV rows.
//
// Column order:
//
//	ID, Infinitive, Conjugated form, Transcription, Mood, Tense, Person
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ivanyu/conjugation-scrapper/pkg/conjugation"
)

// Writer serializes records to an underlying io.Writer.
type Writer struct {
	w    *csv.Writer
	rows int
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Row renders a record as its seven CSV fields.
func Row(r conjugation.Record) []string {
	return []string{
		r.ID(),
		r.Infinitive,
		r.Form,
		r.Transcription,
		string(r.Mood),
		string(r.Tense),
		r.PersonLabel(),
	}
}

// Write writes records and flushes, so that an interrupted run keeps every
// batch written so far.
func (w *Writer) Write(records []conjugation.Record) error {
	for _, r := range records {
		if err := w.w.Write(Row(r)); err != nil {
			return fmt.Errorf("csvexport: write %q: %w", r.ID(), err)
		}
		w.rows++
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("csvexport: flush: %w", err)
	}
	return nil
}

// Rows returns the number of rows written.
func (w *Writer) Rows() int { return w.rows }
