// Package ocr defines the recognizer contract consumed by the caret locator
// and the observation loop. Recognition itself is a black box: one image in,
// positioned text blocks out.
package ocr

import (
	"context"
	"image"
)

// Region is a rectangle in normalized image coordinates (0..1 on both axes,
// origin upper-left), so blocks stay meaningful independent of capture scale.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the normalized center point of the region.
func (r Region) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the normalized point (x, y) lies inside the region.
func (r Region) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// InPixels maps the normalized region onto a pixel rectangle.
func (r Region) InPixels(bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(r.X*w),
		bounds.Min.Y+int(r.Y*h),
		bounds.Min.X+int((r.X+r.Width)*w),
		bounds.Min.Y+int((r.Y+r.Height)*h),
	)
}

// Block is one recognized run of text with its normalized bounding box and a
// 0..1 recognition confidence.
type Block struct {
	Text       string
	Bounds     Region
	Confidence float64
}

/// Engine is the recognizer contract: one image in, blocks out. May return an
// empty slice; implementations pre-filter low-confidence blocks.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) ([]Block, error)
}
