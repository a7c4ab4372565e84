// Package screen abstracts window enumeration and raster capture. Concrete
// implementations are platform-specific and supplied by the embedding
// application; this package owns the shared geometry helpers.
package screen

import (
	"context"
	"image"
)

// Window describes one on-screen window.
type Window struct {
	Title    string
	OwnerPID int
	App      string
	Bounds   image.Rectangle // screen pixels
	URL      string          // set by browser integrations when known
}

// Capturer enumerates windows and captures raster regions. Every method is
// fallible and may legitimately return nothing on platforms or surfaces that
// refuse introspection.
type Capturer interface {
	// Windows lists on-screen windows front-to-back.
	Windows(ctx context.Context) ([]Window, error)

	// CaptureWindow captures the intersection of region with the given
	// window's own pixels, excluding overlapping windows.
	CaptureWindow(ctx context.Context, w Window, region image.Rectangle) (image.Image, error)

	// CaptureComposite captures the fully composited on-screen content of the
	// region.
	CaptureComposite(ctx context.Context, region image.Rectangle) (image.Image, error)

	// CaptureDisplay captures raw display pixels for the region.
	CaptureDisplay(ctx context.Context, region image.Rectangle) (image.Image, error)
}

// RegionAround returns a square region of the given half-size centered on pt,
// clipped to bounds.
func RegionAround(pt image.Point, radius int, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(pt.X-radius, pt.Y-radius, pt.X+radius, pt.Y+radius)
	return r.Intersect(bounds)
}

// FrontWindowAt returns the frontmost window containing pt, if any. Windows
// are assumed ordered front-to-back as returned by Capturer.Windows.
func FrontWindowAt(windows []Window, pt image.Point) (Window, bool) {
	for _, w := range windows {
		if pt.In(w.Bounds) {
			return w, true
		}
	}
	return Window{}, false
}
