// Package conjugation turns a Wiktionary conjugation page into flat,
// deduplicated conjugation records.
package conjugation

import (
	"fmt"
	"strings"
)

// Mood is a French verbal mood as rendered in the output.
type Mood string

const (
	Indicatif    Mood = "indicatif"
	Subjonctif   Mood = "subjonctif"
	Conditionnel Mood = "conditionnel"
)

// Tense is the display name of a tense. Multi-word names keep their space.
type Tense string

const (
	Present      Tense = "présent"
	Imparfait    Tense = "imparfait"
	PasseSimple  Tense = "passé simple"
	PasseCompose Tense = "passé composé"
	FuturSimple  Tense = "futur simple"
)

// Person is the grammatical person label.
type Person string

const (
	Premiere  Person = "première"
	Deuxieme  Person = "deuxième"
	Troisieme Person = "troisième"
)

// Number is the grammatical number label.
type Number string

const (
	Singulier Number = "singulier"
	Pluriel   Number = "pluriel"
)

// Slot is one of the six (person, number) positions of a conjugation
// table, in canonical order.
type Slot int

const (
	FirstSingular Slot = iota
	SecondSingular
	ThirdSingular
	FirstPlural
	SecondPlural
	ThirdPlural

	slotCount = 6
)

var slotLabels = [slotCount]struct {
	person Person
	number Number
}{
	{Premiere, Singulier},
	{Deuxieme, Singulier},
	{Troisieme, Singulier},
	{Premiere, Pluriel},
	{Deuxieme, Pluriel},
	{Troisieme, Pluriel},
}

// Slots lists all slots in canonical order.
func Slots() []Slot {
	return []Slot{FirstSingular, SecondSingular, ThirdSingular, FirstPlural, SecondPlural, ThirdPlural}
}

func (s Slot) valid() bool { return s >= 0 && s < slotCount }

// Person returns the person of the slot.
func (s Slot) Person() Person { return slotLabels[s].person }

// Number returns the number of the slot.
func (s Slot) Number() Number { return slotLabels[s].number }

// Label renders the slot as "<person>_<number>", e.g. "première_singulier".
func (s Slot) Label() string {
	return string(s.Person()) + "_" + string(s.Number())
}

// Key identifies a record. Two records with the same key are duplicates.
type Key struct {
	Infinitive string
	Mood       Mood
	Tense      Tense
	Person     Person
	Number     Number
}

// Record is one conjugated form of one verb.
type Record struct {
	Infinitive    string
	Mood          Mood
	Tense         Tense
	Person        Person
	Number        Number
	Form          string // conjugated form; "<auxiliary> <participle>" for compound tenses
	Transcription string // IPA between backslashes, or empty
}

func newRecord(infinitive string, spec TenseSpec, e entry) Record {
	return Record{
		Infinitive:    Normalize(infinitive),
		Mood:          spec.Mood,
		Tense:         spec.Tense,
		Person:        e.slot.Person(),
		Number:        e.slot.Number(),
		Form:          Normalize(e.form),
		Transcription: Normalize(e.transcription),
	}
}

// PersonLabel renders "<person>_<number>".
func (r Record) PersonLabel() string {
	return string(r.Person) + "_" + string(r.Number)
}

// ID renders "<infinitive> - <mood> - <tense> - <person>_<number>".
func (r Record) ID() string {
	return fmt.Sprintf("%s - %s - %s - %s", r.Infinitive, r.Mood, r.Tense, r.PersonLabel())
}

// Key returns the deduplication key of the record.
func (r Record) Key() Key {
	return Key{
		Infinitive: r.Infinitive,
		Mood:       r.Mood,
		Tense:      r.Tense,
		Person:     r.Person,
		Number:     r.Number,
	}
}

// apostropheReplacer maps typographic apostrophe variants to U+0027.
var apostropheReplacer = strings.NewReplacer(
	"\u2019", "'", // right single quotation mark
	"\u2018", "'", // left single quotation mark
	"\u02bc", "'", // modifier letter apostrophe
	"\u2032", "'", // prime
	"\uff07", "'", // fullwidth apostrophe
	"`", "'",
)

// NormalizeApostrophes rewrites every apostrophe variant to the ASCII one.
func NormalizeApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}
