package caret

import (
	"image"
	"unicode/utf8"
)

// Tier grades how the snapshot was obtained. Accessibility-path results are
// trustworthy; OCR offsets are interpolated estimates and downstream
// consumers must treat them as such.
type Tier int

const (
	TierNone          Tier = iota // placeholder, no context resolved
	TierOCR                       // recognized pixels, estimated caret offset
	TierFullValue                 // field tail treated as before-text
	TierPartial                   // selection resolved, text partially readable
	TierAccessibility             // exact selection-anchored text
)

// String returns a short name for the tier.
func (t Tier) String() string {
	switch t {
	case TierAccessibility:
		return "accessibility"
	case TierPartial:
		return "partial"
	case TierFullValue:
		return "full-value"
	case TierOCR:
		return "ocr"
	default:
		return "none"
	}
}

// Field carries optional metadata about the focused element.
type Field struct {
	Role        string
	Title       string
	Placeholder string
	Frame       image.Rectangle
}

// Snapshot is the caret-anchored text capture handed to the assembler.
type Snapshot struct {
	Before string // text immediately before the caret, window-clipped
	After  string // text immediately after the caret, window-clipped
	App    string
	Field  *Field
	Tier   Tier
}

// Empty reports "no usable context": both sides empty and no field metadata.
func (s Snapshot) Empty() bool {
	return s.Before == "" && s.After == "" && s.Field == nil
}

// clipTail keeps the last max runes of s.
func clipTail(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-max:])
}

// clipHead keeps the first max runes of s.
func clipHead(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
