package conjugation

import (
	"regexp"
	"sort"
	"strings"
)

// Simple reads one inflected form per row.
type Simple struct{}

func (Simple) String() string { return "simple" }

func (Simple) entries(p *Page, spec TenseSpec) []entry {
	t := p.Table(spec.Mood, spec.Heading)
	if t == nil {
		return nil
	}
	var out []entry
	for _, a := range assignSlots(plainRows(t.Rows)) {
		form := cleanForm(a.row.Form())
		if form == "" {
			continue
		}
		out = append(out, entry{slot: a.slot, form: form, transcription: a.row.Transcription})
	}
	return out
}

// Compound reads "<auxiliary présent form> <past participle>" rows. Only
// rows conjugated with the page's auxiliary are kept.
type Compound struct{}

func (Compound) String() string { return "compound" }

func (Compound) entries(p *Page, spec TenseSpec) []entry {
	t := p.Table(spec.Mood, spec.Heading)
	if t == nil {
		return nil
	}

	rows := plainRows(t.Rows)
	aux := p.auxiliary()
	if aux == "" {
		aux = auxiliaryOfRows(rows)
		if aux == "" {
			return nil
		}
	}

	// Rows built on the other auxiliary are a different construction.
	var matching []Row
	for _, r := range rows {
		if auxForm, _, ok := splitCompound(cleanForm(r.Form())); ok && aux.isPresent(auxForm) {
			matching = append(matching, r)
		}
	}

	var out []entry
	for _, a := range assignSlots(matching) {
		auxForm, part, _ := splitCompound(cleanForm(a.row.Form()))
		out = append(out, entry{
			slot:          a.slot,
			form:          auxForm + " " + part,
			transcription: a.row.Transcription,
		})
	}
	return out
}

// splitCompound splits "ai été" into ("ai", "été"). A bare single word is
// not a compound form.
func splitCompound(form string) (aux, participle string, ok bool) {
	fields := strings.Fields(form)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

// Auxiliary is the verb used to build compound tenses.
type Auxiliary string

const (
	Avoir Auxiliary = "avoir"
	Etre  Auxiliary = "être"
)

var auxiliaryPresent = map[Auxiliary][slotCount]string{
	Avoir: {"ai", "as", "a", "avons", "avez", "ont"},
	Etre:  {"suis", "es", "est", "sommes", "êtes", "sont"},
}

func (a Auxiliary) isPresent(form string) bool {
	forms, ok := auxiliaryPresent[a]
	if !ok {
		return false
	}
	for _, f := range forms {
		if f == form {
			return true
		}
	}
	return false
}

// infinitifPasseRegex matches an impersonal-mode cell like "avoir été" or
// "être allé \ɛtʁ a.le\".
var infinitifPasseRegex = regexp.MustCompile(`^(avoir|être)\s+[^\s\\/]`)

// auxiliary detects the compound-tense auxiliary from the page content:
// the infinitif passé first, then an "auxiliaire …" mention.
func (p *Page) auxiliary() Auxiliary {
	for _, cell := range p.impersonal {
		if m := infinitifPasseRegex.FindStringSubmatch(strings.ToLower(cell)); m != nil {
			return Auxiliary(m[1])
		}
	}
	return p.auxHint
}

// auxiliaryOfRows infers the auxiliary from the first compound row whose
// leading word is a présent form of avoir or être.
func auxiliaryOfRows(rows []Row) Auxiliary {
	for _, r := range rows {
		auxForm, _, ok := splitCompound(cleanForm(r.Form()))
		if !ok {
			continue
		}
		for _, a := range []Auxiliary{Avoir, Etre} {
			if a.isPresent(auxForm) {
				return a
			}
		}
	}
	return ""
}

// plainRows drops pronominal rows, unless every row is pronominal (a verb
// that only exists in pronominal form).
func plainRows(rows []Row) []Row {
	var plain []Row
	for _, r := range rows {
		if !isReflexive(r) {
			plain = append(plain, r)
		}
	}
	if len(plain) == 0 {
		return rows
	}
	return plain
}

type assigned struct {
	slot Slot
	row  Row
}

// assignSlots gives each row its slot from the pronoun cell, falling back
// to the next sequential slot. The first row per slot wins and the result
// is in canonical slot order.
func assignSlots(rows []Row) []assigned {
	var (
		taken [slotCount]bool
		out   []assigned
		next  Slot
	)
	for _, r := range rows {
		s, ok := slotOf(r.Pronoun)
		if !ok {
			s = next
		}
		if !s.valid() {
			continue
		}
		next = s + 1
		if taken[s] {
			continue
		}
		taken[s] = true
		out = append(out, assigned{slot: s, row: r})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].slot < out[j].slot })
	return out
}

var placeholderForms = map[string]bool{"\u2014": true, "\u2013": true, "-": true}

// cleanForm trims trailing punctuation and rejects placeholders and
// repeated header cells.
func cleanForm(form string) string {
	form = strings.TrimRight(strings.TrimSpace(form), ".,!?;:")
	if form == "" || placeholderForms[form] || knownHeadings[strings.ToLower(form)] {
		return ""
	}
	return form
}
