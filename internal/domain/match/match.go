// Package match implements the case-insensitive identifier patterns used for
// distribution-list and system-account detection.
//
// A pattern is a substring; a leading '^' anchors it to the start of the
// identifier ("^dl-" matches "DL-Platform@contoso.com" but not "handl-x").
package match

import "strings"

// Set is a compiled, read-only pattern set.
type Set struct {
	contains []string
	prefixes []string
}

// Compile lower-cases and sorts patterns into a Set. Blank patterns are ignored.
func Compile(patterns []string) Set {
	var s Set
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if strings.HasPrefix(p, "^") {
			if p = p[1:]; p != "" {
				s.prefixes = append(s.prefixes, p)
			}
			continue
		}
		if p != "" {
			s.contains = append(s.contains, p)
		}
	}
	return s
}

// Match reports whether any pattern matches id.
func (s Set) Match(id string) bool {
	_, ok := s.First(id)
	return ok
}

// First returns the first matching pattern (prefix patterns carry their '^').
func (s Set) First(id string) (string, bool) {
	lower := strings.ToLower(id)
	for _, p := range s.prefixes {
		if strings.HasPrefix(lower, p) {
			return "^" + p, true
		}
	}
	for _, p := range s.contains {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// Len returns the number of compiled patterns.
func (s Set) Len() int {
	return len(s.contains) + len(s.prefixes)
}
