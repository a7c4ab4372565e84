// Package ax models the accessibility surface as a capability set rather
// than a type hierarchy. Every probe on a Node is fallible: targets that do
// not implement a capability answer with an UNSUPPORTED_CAPABILITY error and
// the caller moves on. Concrete connections are platform-specific and
// supplied by the embedding application.
package ax

import "image"

// Range is a selection range inside a text element: a start offset and a
// length, both in characters. A zero length is a bare caret.
type Range struct {
	Start  int
	Length int
}

// Node is one accessibility element. Probes return an error carrying
// errors.ErrUnsupportedCapability when the underlying element does not
// implement the queried capability; any probe may also fail transiently.
type Node interface {
	// Role returns the element role (e.g. "textfield", "textarea", "button").
	Role() (string, error)

	// Title returns the element's label or title.
	Title() (string, error)

	// Placeholder returns the element's placeholder text.
	Placeholder() (string, error)

	// Value returns the element's full text value.
	Value() (string, error)

	// Frame returns the element's bounding rectangle in screen pixels.
	Frame() (image.Rectangle, error)

	// FocusedChild returns the nested focused element, if the node exposes
	// one (container roles often do).
	FocusedChild() (Node, error)

	// Children returns the element's direct children.
	Children() ([]Node, error)

	// SelectedRange returns the current selection range, where an empty
	// selection marks the caret position.
	SelectedRange() (Range, error)

	// StringForRange returns the text covered by an arbitrary range without
	// materializing the whole value.
	StringForRange(r Range) (string, error)

	// CanSetValue reports whether the element's value attribute is settable,
	// the conventional marker for editability.
	CanSetValue() (bool, error)
}

// Conn is a connection to the system accessibility service.
type Conn interface {
	// FocusedNode returns the system-wide focused element.
	FocusedNode() (Node, error)

	// FrontmostApp returns the name of the foreground application.
	FrontmostApp() (string, error)
}

// editableRoles are roles that imply text editability even when the
// settable-value probe is unavailable.
var editableRoles = map[string]bool{
	"textfield":    true,
	"textarea":     true,
	"searchfield":  true,
	"combobox":     true,
	"text":         true,
	"richtextarea": true,
}

// IsEditableRole reports whether the role conventionally accepts text input.
func IsEditableRole(role string) bool {
	return editableRoles[role]
}
