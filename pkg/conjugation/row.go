package conjugation

import (
	"strings"

	"github.com/temporal-IPA/tipa/pkg/ipa"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/ivanyu/conjugation-scrapper/pkg/htmlq"
)

// Row is one data row of a tense table.
//
// Mobile rows look like:
//
//	je | suis | \ʒə  | sɥi\
//	que je | sois | \kə ʒə | swa\
//	j’ | ai été | \ʒ‿e | e.te\
type Row struct {
	Pronoun       string   // subject cell, apostrophes normalized
	Forms         []string // non-transcription cells after the pronoun
	Transcription string   // joined IPA between backslashes, or empty
}

// Form returns the form cells joined by a single space.
func (r Row) Form() string {
	return strings.Join(r.Forms, " ")
}

// parseRow splits row cells into pronoun, forms and transcription.
// Rows with fewer than two cells are rejected.
func parseRow(cells []*html.Node) (Row, bool) {
	if len(cells) < 2 {
		return Row{}, false
	}

	row := Row{Pronoun: NormalizeApostrophes(htmlq.CleanText(cells[0]))}
	var fragments []string
	for _, c := range cells[1:] {
		raw := norm.NFC.String(htmlq.Text(c))
		clean := htmlq.Collapse(raw)
		if clean == "" {
			continue
		}
		if isTranscriptionFragment(clean) {
			fragments = append(fragments, raw)
			continue
		}
		// Anything after the transcription is a footnote or a variant.
		if len(fragments) == 0 {
			row.Forms = append(row.Forms, NormalizeApostrophes(clean))
		}
	}
	row.Transcription = joinTranscription(fragments)
	return row, len(row.Forms) > 0
}

// isTranscriptionFragment reports whether a cell text is (part of) a
// \…\ or /…/ delimited pronunciation.
func isTranscriptionFragment(s string) bool {
	return strings.Contains(s, `\`) ||
		strings.HasPrefix(s, "/") ||
		strings.HasSuffix(s, "/")
}

const liaison = "\u203f"

var delimiterStripper = strings.NewReplacer(`\`, "", "/", "")

// joinTranscription concatenates pronunciation fragments in order, as the
// page splits them: the spacing between words is the one carried by the
// cells themselves. The result is wrapped in backslashes; content with no
// IPA symbol yields "".
func joinTranscription(fragments []string) string {
	inner := htmlq.Collapse(delimiterStripper.Replace(strings.Join(fragments, "")))
	inner = strings.ReplaceAll(inner, " "+liaison, liaison)
	inner = strings.ReplaceAll(inner, liaison+" ", liaison)
	if inner == "" || !looksLikeIPA(inner) {
		return ""
	}
	return `\` + NormalizeApostrophes(inner) + `\`
}

// looksLikeIPA reports whether s carries at least one IPA symbol.
func looksLikeIPA(s string) bool {
	return strings.ContainsAny(s, ipa.Charset)
}
