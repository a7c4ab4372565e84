// Package caret resolves the text surrounding the user's input caret in an
// arbitrary foreground application. Resolution is a cascade: accessibility
// queries first, pixel recognition as the floor. No step is fatal; the worst
// case is an empty placeholder snapshot.
package caret

import (
	"context"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"glimpse/internal/ax"
	"glimpse/internal/config"
	"glimpse/internal/errors"
	"glimpse/internal/ocr"
	"glimpse/internal/screen"
)

// Descent and search bounds for the accessibility cascade.
const (
	maxFocusDepth  = 3 // nested focused-child descent
	maxSearchDepth = 4 // editable-descendant DFS
)

// Locator resolves caret-anchored text via the accessibility cascade with an
// OCR fallback. Safe for sequential use; the trigger pipeline guarantees no
// overlapping invocations.
type Locator struct {
	conn   ax.Conn
	engine ocr.Engine
	capt   screen.Capturer
	cfg    *config.Config
	log    *zap.Logger
	clock  func() time.Time

	mu        sync.Mutex
	lastOCR   Snapshot
	lastOCRAt time.Time
}

// NewLocator constructs a Locator. Any adapter may be nil, disabling the
// steps that need it.
func NewLocator(conn ax.Conn, engine ocr.Engine, capt screen.Capturer, cfg *config.Config, log *zap.Logger) *Locator {
	return &Locator{
		conn:   conn,
		engine: engine,
		capt:   capt,
		cfg:    cfg,
		log:    log,
		clock:  time.Now,
	}
}

// Resolve produces a snapshot of the text around the caret at pt. It always
// returns a usable snapshot; callers check Empty() for "insufficient
// context". Latency is bounded by the OCR retry budget.
func (l *Locator) Resolve(ctx context.Context, pt image.Point) Snapshot {
	app := l.frontApp()

	snap, ok := l.fromAccessibility(app)
	if ok && (snap.Before != "" || snap.After != "") {
		return snap
	}

	// Accessibility yielded no text; recognition is the remaining source.
	ocrSnap := l.fromOCR(ctx, pt, app)
	if ocrSnap.Before == "" && ocrSnap.After == "" && ok {
		// Keep the metadata-only snapshot over an empty placeholder.
		return snap
	}
	if ok && snap.Field != nil && ocrSnap.Field == nil {
		ocrSnap.Field = snap.Field
	}
	return ocrSnap
}

// WordsAround is the standalone narrow capture: a few recognized words around
// the caret point, skipping the accessibility cascade entirely.
func (l *Locator) WordsAround(ctx context.Context, pt image.Point) Snapshot {
	return l.fromOCR(ctx, pt, l.frontApp())
}

func (l *Locator) frontApp() string {
	if l.conn == nil {
		return ""
	}
	app, err := l.conn.FrontmostApp()
	if err != nil {
		return ""
	}
	return app
}

// fromAccessibility runs cascade steps 1-5. ok is false when the
// accessibility path yielded nothing and the caller should fall through to
// OCR.
func (l *Locator) fromAccessibility(app string) (Snapshot, bool) {
	if l.conn == nil {
		return Snapshot{}, false
	}

	node, err := l.conn.FocusedNode()
	if err != nil || node == nil {
		l.log.Debug("no focused node", zap.Error(err))
		return Snapshot{}, false
	}

	// Step 1: descend to the innermost focused element.
	node = innermostFocused(node, maxFocusDepth)

	// Step 2: if the focused node is not editable, search its descendants
	// for the first element carrying a text capability.
	target := node
	if !isEditable(target) {
		if found := findTextCapable(node, maxSearchDepth); found != nil {
			target = found
		}
	}

	field := fieldInfo(target)
	win := l.cfg.ContextWindowChars

	// Steps 3-4: selection-anchored extraction.
	if sel, err := target.SelectedRange(); err == nil {
		if snap, ok := l.aroundSelection(target, sel, win); ok {
			snap.App = app
			snap.Field = field
			return snap, true
		}
	} else if value, vErr := target.Value(); vErr == nil && value != "" {
		// Step 5: no selection range, but a full value exists. Treat its
		// tail as before-text. The caret may actually sit mid-document;
		// this tier is flagged so consumers tolerate imprecise placement.
		return Snapshot{
			Before: clipTail(value, win),
			App:    app,
			Field:  field,
			Tier:   TierFullValue,
		}, true
	}

	// Field metadata alone still counts as a usable (if text-less) result.
	if field != nil {
		return Snapshot{App: app, Field: field, Tier: TierPartial}, true
	}
	return Snapshot{}, false
}

// aroundSelection extracts before/after text anchored at the selection.
func (l *Locator) aroundSelection(node ax.Node, sel ax.Range, win int) (Snapshot, bool) {
	beforeStart := sel.Start - win
	if beforeStart < 0 {
		beforeStart = 0
	}
	before, bErr := node.StringForRange(ax.Range{Start: beforeStart, Length: sel.Start - beforeStart})
	after, aErr := node.StringForRange(ax.Range{Start: sel.Start + sel.Length, Length: win})

	switch {
	case bErr == nil && aErr == nil:
		// Step 3a: parametrized substring on both sides; the whole field is
		// never materialized.
		return Snapshot{
			Before: clipTail(before, win),
			After:  clipHead(after, win),
			Tier:   TierAccessibility,
		}, true

	default:
		// Step 3b: substring queries unavailable; fall back to slicing the
		// full value when one exists.
		if value, vErr := node.Value(); vErr == nil {
			b, a := splitValue(value, sel)
			return Snapshot{
				Before: clipTail(b, win),
				After:  clipHead(a, win),
				Tier:   TierAccessibility,
			}, true
		}

		// Step 4: partial fallback. Keep whatever side was obtainable.
		if bErr == nil || aErr == nil {
			snap := Snapshot{Tier: TierPartial}
			if bErr == nil {
				snap.Before = clipTail(before, win)
			}
			if aErr == nil {
				snap.After = clipHead(after, win)
			}
			if snap.Before != "" || snap.After != "" {
				return snap, true
			}
		}

		if !errors.Is(bErr, errors.ErrUnsupportedCapability) {
			l.log.Debug("substring query failed", zap.Error(bErr))
		}
		return Snapshot{}, false
	}
}

// splitValue slices a full value into before/after at the selection start.
func splitValue(value string, sel ax.Range) (string, string) {
	runes := []rune(value)
	start := sel.Start
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := start + sel.Length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[:start]), string(runes[end:])
}

// innermostFocused follows nested focused children down to maxDepth.
func innermostFocused(node ax.Node, maxDepth int) ax.Node {
	for i := 0; i < maxDepth; i++ {
		child, err := node.FocusedChild()
		if err != nil || child == nil {
			return node
		}
		node = child
	}
	return node
}

// isEditable reports whether the node itself accepts text input.
func isEditable(node ax.Node) bool {
	if role, err := node.Role(); err == nil && ax.IsEditableRole(role) {
		return true
	}
	if settable, err := node.CanSetValue(); err == nil && settable {
		return true
	}
	return false
}

// findTextCapable depth-first searches descendants for the first node
// exposing a selection range, a substring query, or editability.
func findTextCapable(node ax.Node, depth int) ax.Node {
	if depth <= 0 {
		return nil
	}
	children, err := node.Children()
	if err != nil {
		return nil
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if hasTextCapability(child) {
			return child
		}
		if found := findTextCapable(child, depth-1); found != nil {
			return found
		}
	}
	return nil
}

func hasTextCapability(node ax.Node) bool {
	if _, err := node.SelectedRange(); err == nil {
		return true
	}
	if _, err := node.StringForRange(ax.Range{Start: 0, Length: 0}); err == nil {
		return true
	}
	return isEditable(node)
}

// fieldInfo gathers best-effort metadata; nil when no probe succeeded.
func fieldInfo(node ax.Node) *Field {
	f := &Field{}
	any := false
	if role, err := node.Role(); err == nil && role != "" {
		f.Role = role
		any = true
	}
	if title, err := node.Title(); err == nil && title != "" {
		f.Title = title
		any = true
	}
	if ph, err := node.Placeholder(); err == nil && ph != "" {
		f.Placeholder = ph
		any = true
	}
	if frame, err := node.Frame(); err == nil && frame != (image.Rectangle{}) {
		f.Frame = frame
		any = true
	}
	if !any {
		return nil
	}
	return f
}
