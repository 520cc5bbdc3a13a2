package conjugation

// TenseSpec names one (mood, tense) table to extract and how to read it.
type TenseSpec struct {
	Mood     Mood
	Tense    Tense
	Heading  string // tense heading as found in the source table, lowercased
	Strategy Strategy
}

// Strategy reads the per-slot forms of one tense out of a scanned page.
// The two implementations are Simple and Compound.
type Strategy interface {
	entries(p *Page, spec TenseSpec) []entry
	String() string
}

// entry is one extracted cell group before it becomes a Record.
type entry struct {
	slot          Slot
	form          string
	transcription string
}

// DefaultTenses returns the tense set in output order. withCompound adds
// the indicatif passé composé after the passé simple.
func DefaultTenses(withCompound bool) []TenseSpec {
	specs := []TenseSpec{
		{Indicatif, Present, "présent", Simple{}},
		{Indicatif, Imparfait, "imparfait", Simple{}},
		{Indicatif, PasseSimple, "passé simple", Simple{}},
	}
	if withCompound {
		specs = append(specs, TenseSpec{Indicatif, PasseCompose, "passé composé", Compound{}})
	}
	return append(specs,
		TenseSpec{Indicatif, FuturSimple, "futur simple", Simple{}},
		TenseSpec{Subjonctif, Present, "présent", Simple{}},
		TenseSpec{Subjonctif, Imparfait, "imparfait", Simple{}},
		TenseSpec{Conditionnel, Present, "présent", Simple{}},
	)
}

// knownHeadings are the first-cell texts that mark a tense table.
var knownHeadings = map[string]bool{
	"présent":       true,
	"imparfait":     true,
	"passé simple":  true,
	"passé composé": true,
	"futur simple":  true,
}
