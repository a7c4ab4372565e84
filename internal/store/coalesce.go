package store

import (
	"strings"
	"unicode/utf8"
)

// GroupKey identifies one flush group: where the text was observed.
type GroupKey struct {
	App    string
	Window string
	URL    string
}

// groupBuffer accumulates the distinct texts seen for one group during the
// current flush cycle. Insertion coalesces incremental typing: a string
// already covered by a buffered superset is dropped, and a new superset
// replaces the shorter string it extends.
type groupBuffer struct {
	texts []string
}

// add inserts cleaned text, coalescing against existing buffer content.
// tolerance bounds the length difference under which containment is treated
// as incremental typing rather than distinct content.
func (g *groupBuffer) add(text string, tolerance int) {
	for i, existing := range g.texts {
		if coversWithin(existing, text, tolerance) {
			// The buffer already holds a settled superset; the newcomer is
			// a typing prefix (or an exact duplicate).
			return
		}
		if coversWithin(text, existing, tolerance) {
			g.texts[i] = text
			return
		}
	}
	g.texts = append(g.texts, text)
}

// coversWithin reports whether longer contains shorter and their lengths
// differ by at most tolerance runes.
func coversWithin(longer, shorter string, tolerance int) bool {
	diff := utf8.RuneCountInString(longer) - utf8.RuneCountInString(shorter)
	if diff < 0 || diff > tolerance {
		return false
	}
	return strings.Contains(longer, shorter)
}
