package caret

import (
	"context"
	"image"

	"glimpse/internal/ax"
	"glimpse/internal/errors"
	"glimpse/internal/ocr"
	"glimpse/internal/screen"
)

// fakeNode is a synthetic accessibility element whose capability set is
// controlled per test. Unset capabilities answer UNSUPPORTED_CAPABILITY.
type fakeNode struct {
	role        string
	title       string
	placeholder string
	frame       image.Rectangle

	// text backs StringForRange; value is what Value() exposes.
	text     string
	hasValue bool

	sel        *ax.Range
	hasSubstr  bool
	afterFails bool // substring queries at/after the selection end fail
	settable   bool

	focusedChild *fakeNode
	children     []*fakeNode
}

func (n *fakeNode) Role() (string, error) {
	if n.role == "" {
		return "", errors.NewUnsupported("AXRole")
	}
	return n.role, nil
}

func (n *fakeNode) Title() (string, error) {
	if n.title == "" {
		return "", errors.NewUnsupported("AXTitle")
	}
	return n.title, nil
}

func (n *fakeNode) Placeholder() (string, error) {
	if n.placeholder == "" {
		return "", errors.NewUnsupported("AXPlaceholderValue")
	}
	return n.placeholder, nil
}

func (n *fakeNode) Value() (string, error) {
	if !n.hasValue {
		return "", errors.NewUnsupported("AXValue")
	}
	return n.text, nil
}

func (n *fakeNode) Frame() (image.Rectangle, error) {
	if n.frame == (image.Rectangle{}) {
		return image.Rectangle{}, errors.NewUnsupported("AXFrame")
	}
	return n.frame, nil
}

func (n *fakeNode) FocusedChild() (ax.Node, error) {
	if n.focusedChild == nil {
		return nil, errors.NewUnsupported("AXFocusedUIElement")
	}
	return n.focusedChild, nil
}

func (n *fakeNode) Children() ([]ax.Node, error) {
	if n.children == nil {
		return nil, errors.NewUnsupported("AXChildren")
	}
	out := make([]ax.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (n *fakeNode) SelectedRange() (ax.Range, error) {
	if n.sel == nil {
		return ax.Range{}, errors.NewUnsupported("AXSelectedTextRange")
	}
	return *n.sel, nil
}

func (n *fakeNode) StringForRange(r ax.Range) (string, error) {
	if !n.hasSubstr {
		return "", errors.NewUnsupported("AXStringForRange")
	}
	if n.afterFails && n.sel != nil && r.Start >= n.sel.Start+n.sel.Length {
		return "", errors.NewUnsupported("AXStringForRange")
	}
	runes := []rune(n.text)
	start := min(max(r.Start, 0), len(runes))
	end := min(start+r.Length, len(runes))
	return string(runes[start:end]), nil
}

func (n *fakeNode) CanSetValue() (bool, error) {
	if !n.settable {
		return false, errors.NewUnsupported("AXValueSettable")
	}
	return true, nil
}

// fakeConn roots the cascade at a fixed node.
type fakeConn struct {
	focused *fakeNode
	app     string
}

func (c *fakeConn) FocusedNode() (ax.Node, error) {
	if c.focused == nil {
		return nil, errors.NewEmptyResult("focused node")
	}
	return c.focused, nil
}

func (c *fakeConn) FrontmostApp() (string, error) {
	return c.app, nil
}

// fakeEngine replays canned block sets, one per call.
type fakeEngine struct {
	results [][]ocr.Block
	calls   int
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(_ context.Context, _ image.Image) ([]ocr.Block, error) {
	defer func() { e.calls++ }()
	if e.calls < len(e.results) {
		return e.results[e.calls], nil
	}
	return nil, nil
}

// fakeCapturer serves composite captures covering exactly the requested
// region and records the requested region sizes.
type fakeCapturer struct {
	windows []screen.Window
	regions []image.Rectangle
}

func (c *fakeCapturer) Windows(context.Context) ([]screen.Window, error) {
	return c.windows, nil
}

func (c *fakeCapturer) CaptureWindow(_ context.Context, _ screen.Window, region image.Rectangle) (image.Image, error) {
	return c.serve(region)
}

func (c *fakeCapturer) CaptureComposite(_ context.Context, region image.Rectangle) (image.Image, error) {
	return c.serve(region)
}

func (c *fakeCapturer) CaptureDisplay(_ context.Context, region image.Rectangle) (image.Image, error) {
	return c.serve(region)
}

func (c *fakeCapturer) serve(region image.Rectangle) (image.Image, error) {
	c.regions = append(c.regions, region)
	return image.NewRGBA(region), nil
}
