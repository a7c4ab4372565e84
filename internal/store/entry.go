package store

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"glimpse/internal/classify"
)

// TextBlock is one observed piece of on-screen text, as delivered by the
// observation loop. Ephemeral: only what survives the ingest gate persists.
type TextBlock struct {
	Text       string
	Bounds     image.Rectangle // screen pixels
	App        string
	Window     string
	URL        string
	Time       time.Time
	Confidence float64
}

// ContentEntry is the persistent unit of observed text. Text is immutable
// once created; repeat sightings only bump LastSeen and ViewCount. Entries
// are never deleted, only excluded from ranked retrieval.
type ContentEntry struct {
	ID         string // hex of SHA-256 over the normalized text, truncated
	Text       string
	FirstSeen  time.Time
	LastSeen   time.Time
	ViewCount  int
	Category   classify.Category
	Importance classify.Importance
	Signature  map[string]struct{} // significant-word set, cached for ranking
	App        string
	Window     string
	URL        string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean collapses all whitespace runs (including newlines) to single spaces
// and trims the ends.
func Clean(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeKey derives the dedup key: lowercase with collapsed whitespace.
func NormalizeKey(s string) string {
	return strings.ToLower(Clean(s))
}

// EntryID hashes a normalized key into a stable short identifier.
func EntryID(normKey string) string {
	sum := sha256.Sum256([]byte(normKey))
	return hex.EncodeToString(sum[:8])
}

// coordinateRe matches strings made only of digits and positional
// punctuation, the shape of coordinates, sizes and offsets in debug overlays.
var coordinateRe = regexp.MustCompile(`^[\d\s.,:;xX%/+\-()\[\]{}]+$`)

// debugNoise is the fixed denylist of substrings that mark developer debug
// output rather than user-visible content.
var debugNoise = []string{
	"AXUIElement",
	"NSWindow",
	"kCGWindow",
	"[object Object]",
	"0x7f",
	"undefined",
}

// Meaningful is the ingest gate: whether cleaned text is worth storing.
func Meaningful(cleaned string) bool {
	if utf8.RuneCountInString(cleaned) < 3 {
		return false
	}
	if coordinateRe.MatchString(cleaned) {
		return false
	}
	if isRepetitive(cleaned) {
		return false
	}
	for _, marker := range debugNoise {
		if strings.Contains(cleaned, marker) {
			return false
		}
	}
	return true
}

// isRepetitive detects strings drawn from a tiny character set, such as
// separator rows and progress bars.
func isRepetitive(s string) bool {
	runes := []rune(s)
	if len(runes) < 6 {
		return false
	}
	distinct := make(map[rune]struct{}, 4)
	for _, r := range runes {
		distinct[r] = struct{}{}
		if len(distinct) > 3 {
			return false
		}
	}
	return true
}

// stopwords excluded from significance; short glue words carry no ranking
// signal.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "was": true,
	"with": true, "that": true, "this": true, "from": true, "have": true,
}

var wordRe = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// SignificantWords extracts the lowercase word set used for Jaccard
// similarity: alphanumeric tokens of three or more characters, stopwords
// removed.
func SignificantWords(s string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
