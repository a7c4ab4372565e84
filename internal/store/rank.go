package store

import (
	"sort"
	"time"
	"unicode/utf8"

	"glimpse/internal/classify"
)

const (
	// maxRecencyBonus is the additive credit for text seen this instant,
	// decaying linearly to zero at recencyHorizon.
	maxRecencyBonus = 0.25
	recencyHorizon  = 24 * time.Hour

	// minRecentChars is the length floor for the everything-recent mode.
	minRecentChars = 5
)

// Retrieve scores every entry at or above the importance floor against the
// given context and returns the top-limit texts, best first. Score is the
// Jaccard similarity of significant-word sets weighted by the importance
// multiplier, plus the recency bonus.
func (s *Store) Retrieve(context string, floor classify.Importance, limit int) []string {
	if limit <= 0 {
		return nil
	}
	ctxWords := SignificantWords(context)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	type scored struct {
		text     string
		score    float64
		lastSeen time.Time
	}
	candidates := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Importance < floor {
			continue
		}
		score := jaccard(e.Signature, ctxWords)*e.Importance.Multiplier() + recencyBonus(now, e.LastSeen)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{text: e.Text, score: score, lastSeen: e.LastSeen})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].lastSeen.Equal(candidates[j].lastSeen) {
			return candidates[i].lastSeen.After(candidates[j].lastSeen)
		}
		return candidates[i].text < candidates[j].text
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return out
}

// Recent is the everything-recent mode used when the caret context is too
// sparse to rank against: entries above a minimal length floor ordered by
// LastSeen, returned chronologically so the most recently seen text is last.
func (s *Store) Recent(limit int) []string {
	if limit <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type seen struct {
		text     string
		lastSeen time.Time
	}
	candidates := make([]seen, 0, len(s.entries))
	for _, e := range s.entries {
		if utf8.RuneCountInString(e.Text) < minRecentChars {
			continue
		}
		candidates = append(candidates, seen{text: e.Text, lastSeen: e.LastSeen})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].lastSeen.Equal(candidates[j].lastSeen) {
			return candidates[i].lastSeen.After(candidates[j].lastSeen)
		}
		return candidates[i].text < candidates[j].text
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	// Reverse into chronological order: most recent last.
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[len(out)-1-i] = c.text
	}
	return out
}

// jaccard computes |a∩b| / |a∪b| over word sets; empty union scores zero.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for w := range small {
		if _, ok := large[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// recencyBonus decays linearly from full credit now to zero at the horizon.
// Entries with unknown recency (journal replays) earn nothing.
func recencyBonus(now, lastSeen time.Time) float64 {
	if lastSeen.IsZero() {
		return 0
	}
	age := now.Sub(lastSeen)
	if age < 0 {
		age = 0
	}
	if age >= recencyHorizon {
		return 0
	}
	return maxRecencyBonus * (1 - float64(age)/float64(recencyHorizon))
}
