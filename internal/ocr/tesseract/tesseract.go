//go:build cgo

// Package tesseract provides the default ocr.Engine backed by the gosseract
// client.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"glimpse/internal/ocr"
)

// Engine implements ocr.Engine using a fresh gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
	minConfidence float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages sets recognition language hints (e.g. "eng", "deu").
func WithLanguages(langs ...string) Option {
	return func(e *Engine) { e.languages = append([]string(nil), langs...) }
}

// WithMinConfidence drops recognized lines below the given 0..1 confidence.
func WithMinConfidence(min float64) Option {
	return func(e *Engine) { e.minConfidence = min }
}

// New constructs a Tesseract-backed OCR engine.
func New(opts ...Option) *Engine {
	e := &Engine{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs line-level recognition on img and returns normalized blocks.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]ocr.Block, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode capture: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	return NormalizeBoxes(boxes, img.Bounds(), e.minConfidence), nil
}

// NormalizeBoxes converts gosseract pixel boxes into normalized blocks,
// dropping empty and low-confidence lines. Gosseract reports confidence on a
// 0..100 scale.
func NormalizeBoxes(boxes []gosseract.BoundingBox, bounds image.Rectangle, minConfidence float64) []ocr.Block {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		return nil
	}

	blocks := make([]ocr.Block, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		conf := b.Confidence / 100
		if conf < minConfidence {
			continue
		}
		blocks = append(blocks, ocr.Block{
			Text: text,
			Bounds: ocr.Region{
				X:      float64(b.Box.Min.X-bounds.Min.X) / w,
				Y:      float64(b.Box.Min.Y-bounds.Min.Y) / h,
				Width:  float64(b.Box.Dx()) / w,
				Height: float64(b.Box.Dy()) / h,
			},
			Confidence: conf,
		})
	}
	return blocks
}
