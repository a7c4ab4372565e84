// Package assemble builds the bounded context bundle handed to the
// completion step: one caret-marked cursor line plus budgeted history.
package assemble

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"glimpse/internal/caret"
)

// Input carries everything the assembler needs. History arrives ranked best
// first, as produced by store retrieval.
type Input struct {
	Snapshot caret.Snapshot
	History  []string
	MaxLines int // hard cap on history lines
	MaxChars int // cumulative history character budget
	Marker   string
}

// Bundle is the finalized, size-bounded context package. History is ordered
// weakest to strongest so the most relevant content trails, where trailing
// position gets the most downstream attention.
type Bundle struct {
	CursorLine string
	History    []string
	FieldLine  string
	Tier       caret.Tier
}

// Build assembles a bundle. Deterministic: identical inputs yield identical
// bundles.
func Build(in Input) Bundle {
	b := Bundle{
		CursorLine: in.Snapshot.Before + in.Marker + in.Snapshot.After,
		Tier:       in.Snapshot.Tier,
		FieldLine:  fieldLine(in.Snapshot),
	}

	// Hard line cap first, keeping the strongest lines.
	history := in.History
	if in.MaxLines > 0 && len(history) > in.MaxLines {
		history = history[:in.MaxLines]
	}

	// Character budget next: stop adding once the budget would be exceeded,
	// but never return an empty history when any line was offered.
	kept := make([]string, 0, len(history))
	used := 0
	for i, line := range history {
		n := utf8.RuneCountInString(line)
		if i > 0 && in.MaxChars > 0 && used+n > in.MaxChars {
			break
		}
		kept = append(kept, line)
		used += n
	}

	// Strongest last; no further reordering.
	b.History = make([]string, len(kept))
	for i, line := range kept {
		b.History[len(kept)-1-i] = line
	}
	return b
}

// fieldLine renders the optional focused-field description.
func fieldLine(snap caret.Snapshot) string {
	f := snap.Field
	if f == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if f.Role != "" {
		parts = append(parts, f.Role)
	}
	if f.Title != "" {
		parts = append(parts, fmt.Sprintf("titled %q", f.Title))
	}
	if f.Placeholder != "" {
		parts = append(parts, fmt.Sprintf("placeholder %q", f.Placeholder))
	}
	if len(parts) == 0 {
		return ""
	}
	if snap.App != "" {
		return fmt.Sprintf("Focused field in %s: %s", snap.App, strings.Join(parts, ", "))
	}
	return "Focused field: " + strings.Join(parts, ", ")
}

// Render serializes the bundle: history first, field description, cursor
// line last.
func (b Bundle) Render() string {
	var sb strings.Builder
	for _, line := range b.History {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if b.FieldLine != "" {
		sb.WriteString(b.FieldLine)
		sb.WriteByte('\n')
	}
	sb.WriteString(b.CursorLine)
	return sb.String()
}
