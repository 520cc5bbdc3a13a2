package conjugation

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ivanyu/conjugation-scrapper/pkg/htmlq"
)

// Page is the conjugation content found in one document.
type Page struct {
	tables     map[tableKey]*TenseTable
	impersonal []string // cell texts of the "Modes impersonnels" section
	auxHint    Auxiliary
}

type tableKey struct {
	mood    Mood
	heading string
}

// TenseTable is one tense table of one mood.
type TenseTable struct {
	Mood    Mood
	Heading string
	Rows    []Row
}

// Table returns the table for (mood, heading), or nil when the page has none.
func (p *Page) Table(mood Mood, heading string) *TenseTable {
	return p.tables[tableKey{mood, heading}]
}

// Len returns the number of tense tables found.
func (p *Page) Len() int { return len(p.tables) }

type section int

const (
	sectionNone section = iota
	sectionMood
	sectionImpersonal
)

// blockMarkerLevel is used as the context level of a mood set by a
// non-heading marker: any later heading that names no mood ends it.
const blockMarkerLevel = 7

var auxiliaryTextRegex = regexp.MustCompile(`auxiliaire\s+(avoir|être)\b`)

// ScanPage walks doc once and collects the tense tables grouped by mood,
// the impersonal-mode cells and any auxiliary hint in the running text.
// A document without conjugation tables yields an empty Page.
func ScanPage(doc *html.Node) *Page {
	p := &Page{tables: make(map[tableKey]*TenseTable)}
	if doc == nil {
		return p
	}

	var (
		sec   section
		mood  Mood
		level int
	)

	htmlq.Walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}

		if l := htmlq.HeadingLevel(n); l > 0 {
			text := strings.ToLower(htmlq.CleanText(n))
			switch m, ok := moodIn(text); {
			case ok:
				sec, mood, level = sectionMood, m, l
			case strings.Contains(text, "impersonnel"):
				sec, mood, level = sectionImpersonal, "", l
			case strings.Contains(text, "impératif"):
				sec, mood, level = sectionNone, "", l
			case sec != sectionNone && l <= level:
				sec, mood, level = sectionNone, "", 0
			}
			return false
		}

		switch n.DataAtom {
		case atom.Div, atom.P, atom.Th, atom.Caption, atom.B, atom.Strong:
			text := strings.ToLower(htmlq.CleanText(n))
			if m, ok := moodNamed(text); ok {
				sec, mood, level = sectionMood, m, blockMarkerLevel
				return false
			}
			switch text {
			case "impératif":
				sec, mood, level = sectionNone, "", blockMarkerLevel
				return false
			case "modes impersonnels":
				sec, mood, level = sectionImpersonal, "", blockMarkerLevel
				return false
			}
		case atom.Table:
			switch sec {
			case sectionMood:
				p.addTable(mood, n)
			case sectionImpersonal:
				for _, c := range htmlq.FindAll(n, htmlq.IsElement(atom.Td, atom.Th)) {
					if t := htmlq.CleanText(c); t != "" {
						p.impersonal = append(p.impersonal, t)
					}
				}
			}
		}
		return true
	})

	if m := auxiliaryTextRegex.FindStringSubmatch(strings.ToLower(htmlq.CleanText(doc))); m != nil {
		p.auxHint = Auxiliary(m[1])
	}
	return p
}

// addTable records table when its first cell names a known tense.
// The first table seen for a (mood, heading) pair wins.
func (p *Page) addTable(mood Mood, table *html.Node) {
	rows := htmlq.Rows(table)
	if len(rows) == 0 {
		return
	}
	head := htmlq.Cells(rows[0])
	if len(head) == 0 {
		return
	}
	heading := strings.ToLower(htmlq.CleanText(head[0]))
	if !knownHeadings[heading] {
		return
	}
	key := tableKey{mood, heading}
	if _, exists := p.tables[key]; exists {
		return
	}

	t := &TenseTable{Mood: mood, Heading: heading}
	for _, r := range rows[1:] {
		if row, ok := parseRow(htmlq.Cells(r)); ok {
			t.Rows = append(t.Rows, row)
		}
	}
	p.tables[key] = t
}

var moods = []Mood{Indicatif, Subjonctif, Conditionnel}

// moodIn reports the mood named anywhere in a heading text.
func moodIn(text string) (Mood, bool) {
	for _, m := range moods {
		if strings.Contains(text, string(m)) {
			return m, true
		}
	}
	return "", false
}

// moodNamed reports the mood when text is exactly its name.
func moodNamed(text string) (Mood, bool) {
	for _, m := range moods {
		if text == string(m) {
			return m, true
		}
	}
	return "", false
}
