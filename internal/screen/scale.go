package screen

import (
	"image"

	"golang.org/x/image/draw"
)

// minOCRSide is the smallest capture side length that recognizes reliably;
// smaller captures are upscaled first.
const minOCRSide = 320

// ScaleForOCR upscales small captures with Catmull-Rom interpolation so thin
// glyphs survive recognition. Images already large enough pass through
// untouched.
func ScaleForOCR(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() >= minOCRSide && b.Dy() >= minOCRSide {
		return img
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return img
	}

	factor := 2
	for b.Dx()*factor < minOCRSide && b.Dy()*factor < minOCRSide && factor < 8 {
		factor *= 2
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
