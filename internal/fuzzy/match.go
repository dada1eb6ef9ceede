// Package fuzzy decides which window titles match the typed filter.
package fuzzy

import "unicode"

// IsSubMatch reports whether pattern occurs as a contiguous run of text.
// Matching is smart-case per rune: an upper-case pattern rune must match
// exactly, any other rune matches regardless of case. An empty pattern
// matches everything.
func IsSubMatch(text, pattern string) bool {
	t := []rune(text)
	p := []rune(pattern)

	for start := 0; start+len(p) <= len(t); start++ {
		if matchAt(t[start:], p) {
			return true
		}
	}
	return false
}

func matchAt(text, pattern []rune) bool {
	for i, pc := range pattern {
		if !runeMatches(text[i], pc) {
			return false
		}
	}
	return true
}

func runeMatches(tc, pc rune) bool {
	if tc == pc {
		return true
	}
	if unicode.IsUpper(pc) {
		return false
	}
	return equalFold(tc, pc)
}

// equalFold walks the simple case-folding orbit of r, as strings.EqualFold
// does for a single rune.
func equalFold(a, b rune) bool {
	for r := unicode.SimpleFold(b); r != b; r = unicode.SimpleFold(r) {
		if r == a {
			return true
		}
	}
	return false
}
