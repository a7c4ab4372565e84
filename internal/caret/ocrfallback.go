package caret

import (
	"context"
	"image"
	"math"

	"go.uber.org/zap"

	"glimpse/internal/ocr"
	"glimpse/internal/screen"
)

// fromOCR is cascade step 6: capture a region around the caret point, run
// recognition, and anchor the caret inside the best block. Zero-text
// attempts retry with an enlarged radius up to the configured cap, which is
// the sole bound on worst-case latency. A recent prior snapshot is reused
// when every attempt comes up empty; the final floor is an empty placeholder.
func (l *Locator) fromOCR(ctx context.Context, pt image.Point, app string) Snapshot {
	if l.engine == nil || l.capt == nil {
		return Snapshot{App: app, Tier: TierNone}
	}

	radius := float64(l.cfg.OCRRadius)
	for attempt := 0; attempt < l.cfg.OCRRetries; attempt++ {
		region := image.Rect(
			pt.X-int(radius), pt.Y-int(radius),
			pt.X+int(radius), pt.Y+int(radius),
		)

		img := l.captureRegion(ctx, pt, region)
		if img == nil {
			radius *= l.cfg.OCRGrowth
			continue
		}

		blocks, err := l.engine.Recognize(ctx, screen.ScaleForOCR(img))
		if err != nil {
			l.log.Debug("recognition failed", zap.Int("attempt", attempt), zap.Error(err))
			radius *= l.cfg.OCRGrowth
			continue
		}
		if len(blocks) == 0 {
			radius *= l.cfg.OCRGrowth
			continue
		}

		snap := l.anchorCaret(blocks, region, pt)
		snap.App = app

		l.mu.Lock()
		l.lastOCR = snap
		l.lastOCRAt = l.clock()
		l.mu.Unlock()
		return snap
	}

	// Every attempt came up empty: reuse a recent snapshot if fresh enough.
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.lastOCRAt.IsZero() && l.clock().Sub(l.lastOCRAt) <= l.cfg.StaleSnapshotTTL {
		stale := l.lastOCR
		stale.App = app
		return stale
	}

	return Snapshot{App: app, Tier: TierNone}
}

// captureRegion tries the capture sources in order: the caret's own window,
// the composited screen, raw display pixels. The returned image covers
// exactly the requested region; nil when every source failed.
func (l *Locator) captureRegion(ctx context.Context, pt image.Point, region image.Rectangle) image.Image {
	if windows, err := l.capt.Windows(ctx); err == nil {
		if w, ok := screen.FrontWindowAt(windows, pt); ok {
			if img, err := l.capt.CaptureWindow(ctx, w, region); err == nil && usable(img) {
				return img
			}
		}
	}
	if img, err := l.capt.CaptureComposite(ctx, region); err == nil && usable(img) {
		return img
	}
	if img, err := l.capt.CaptureDisplay(ctx, region); err == nil && usable(img) {
		return img
	}
	return nil
}

func usable(img image.Image) bool {
	return img != nil && img.Bounds().Dx() > 0 && img.Bounds().Dy() > 0
}

// anchorCaret picks the block containing the caret point (else the nearest by
// center distance) and splits its text at an offset interpolated from the
// caret's horizontal position within the block.
func (l *Locator) anchorCaret(blocks []ocr.Block, region image.Rectangle, pt image.Point) Snapshot {
	nx := float64(pt.X-region.Min.X) / float64(region.Dx())
	ny := float64(pt.Y-region.Min.Y) / float64(region.Dy())

	best := -1
	bestDist := math.MaxFloat64
	for i, b := range blocks {
		if b.Bounds.Contains(nx, ny) {
			best = i
			break
		}
		cx, cy := b.Bounds.Center()
		if d := math.Hypot(cx-nx, cy-ny); d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return Snapshot{Tier: TierNone}
	}

	block := blocks[best]
	runes := []rune(block.Text)

	// Interpolate the caret's character offset from its horizontal position.
	rel := 0.0
	if block.Bounds.Width > 0 {
		rel = (nx - block.Bounds.X) / block.Bounds.Width
	}
	rel = math.Max(0, math.Min(1, rel))
	offset := int(math.Round(rel * float64(len(runes))))

	win := l.cfg.ContextWindowChars
	return Snapshot{
		Before: clipTail(string(runes[:offset]), win),
		After:  clipHead(string(runes[offset:]), win),
		Tier:   TierOCR,
	}
}
