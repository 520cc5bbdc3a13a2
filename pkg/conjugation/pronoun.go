package conjugation

import "strings"

var subjectSlots = map[string]Slot{
	"je":    FirstSingular,
	"j'":    FirstSingular,
	"tu":    SecondSingular,
	"il":    ThirdSingular,
	"elle":  ThirdSingular,
	"on":    ThirdSingular,
	"nous":  FirstPlural,
	"vous":  SecondPlural,
	"ils":   ThirdPlural,
	"elles": ThirdPlural,
}

var reflexivePronouns = map[string]bool{
	"me": true, "m'": true,
	"te": true, "t'": true,
	"se": true, "s'": true,
	"nous": true, "vous": true,
}

var reflexiveFormPrefixes = []string{"me ", "te ", "se ", "nous ", "vous ", "m'", "t'", "s'"}

// pronounTokens lowercases a pronoun cell, splits it on spaces and after
// elided apostrophes, and drops a leading subjunctive "que".
//
//	"que j'"        -> [j']
//	"qu'il/elle/on" -> [il/elle/on]
//	"nous nous"     -> [nous nous]
func pronounTokens(cell string) []string {
	var toks []string
	for _, f := range strings.Fields(strings.ToLower(NormalizeApostrophes(cell))) {
		for f != "" {
			i := strings.IndexByte(f, '\'')
			if i < 0 || i == len(f)-1 {
				toks = append(toks, f)
				break
			}
			toks = append(toks, f[:i+1])
			f = f[i+1:]
		}
	}
	if len(toks) > 0 && (toks[0] == "que" || toks[0] == "qu'") {
		toks = toks[1:]
	}
	return toks
}

// slotOf maps a pronoun cell to its slot. "il/elle/on" style alternatives
// are resolved on their first member.
func slotOf(cell string) (Slot, bool) {
	toks := pronounTokens(cell)
	if len(toks) == 0 {
		return 0, false
	}
	subject, _, _ := strings.Cut(toks[0], "/")
	s, ok := subjectSlots[subject]
	return s, ok
}

// isReflexive reports whether a row is a pronominal variant: the form
// starts with an object pronoun, or the pronoun cell carries one after
// the subject ("je me", "nous nous").
func isReflexive(r Row) bool {
	form := strings.ToLower(r.Form())
	for _, p := range reflexiveFormPrefixes {
		if strings.HasPrefix(form, p) && len(form) > len(p) {
			return true
		}
	}
	toks := pronounTokens(r.Pronoun)
	return len(toks) >= 2 && reflexivePronouns[toks[len(toks)-1]]
}
