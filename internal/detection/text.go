package detection

import (
	"strings"
	"unicode"
)

// shortTermMaxLen is the longest term matched as a whole word only
const shortTermMaxLen = 3

// words lowercases s and splits it on anything that is not a letter or digit
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termMatcher matches configured terms against a name.
// Terms of up to three characters must equal a whole word ("pro" does not
// match "prompt"); longer terms may appear inside a word ("super" matches
// "superfast"); multi-word terms must appear as a phrase.
type termMatcher struct {
	terms []string
}

func newTermMatcher(terms []string) termMatcher {
	normalized := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.Join(words(t), " ")
		if t != "" {
			normalized = append(normalized, t)
		}
	}
	return termMatcher{terms: normalized}
}

// matches returns the matching terms in configuration order
func (m termMatcher) matches(text string) []string {
	ws := words(text)
	if len(ws) == 0 {
		return nil
	}
	joined := " " + strings.Join(ws, " ") + " "
	wordSet := make(map[string]bool, len(ws))
	for _, w := range ws {
		wordSet[w] = true
	}

	var found []string
	for _, term := range m.terms {
		switch {
		case strings.Contains(term, " "):
			if strings.Contains(joined, " "+term+" ") {
				found = append(found, term)
			}
		case len(term) <= shortTermMaxLen:
			if wordSet[term] {
				found = append(found, term)
			}
		default:
			if strings.Contains(joined, term) {
				found = append(found, term)
			}
		}
	}
	return found
}

// noneValues are whole requirement values that mean "not required"
var noneValues = map[string]bool{
	"no":           true,
	"n a":          true,
	"not required": true,
}

// readsAsNone reports whether a free-text requirement means "not required".
// "none" counts anywhere as a whole word; "no", "n/a" and "not required"
// only when they are the entire value.
func readsAsNone(s *string) bool {
	if s == nil {
		return false
	}
	ws := words(*s)
	for _, w := range ws {
		if w == "none" {
			return true
		}
	}
	return noneValues[strings.Join(ws, " ")]
}
