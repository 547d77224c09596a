package classify

import (
	"slices"
	"strings"
	"unicode"
)

// tokenize lower-cases s and splits it into letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywordSet matches subjects against keywords. Single-word keywords are
// looked up directly; multi-word and hyphenated keywords ("all-hands",
// "town hall") must appear as a contiguous run of subject tokens.
type keywordSet struct {
	words   map[string]struct{}
	phrases [][]string
}

func newKeywordSet(keywords []string) keywordSet {
	ks := keywordSet{words: make(map[string]struct{}, len(keywords))}
	for _, k := range keywords {
		switch toks := tokenize(k); len(toks) {
		case 0:
		case 1:
			ks.words[toks[0]] = struct{}{}
		default:
			ks.phrases = append(ks.phrases, toks)
		}
	}
	return ks
}

func (ks keywordSet) match(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := ks.words[t]; ok {
			return true
		}
	}
	for _, p := range ks.phrases {
		for i := 0; i+len(p) <= len(tokens); i++ {
			if slices.Equal(tokens[i:i+len(p)], p) {
				return true
			}
		}
	}
	return false
}
