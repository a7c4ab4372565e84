package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"glimpse/internal/config"
	"glimpse/internal/ocr"
	"glimpse/internal/screen"
	"glimpse/internal/store"
)

// Observer is the low-frequency observation loop: capture the frontmost
// window, recognize its text, feed the blocks to the store. The store's own
// gates handle noise, dedupe, and coalescing; the observer only attributes.
type Observer struct {
	capt   screen.Capturer
	engine ocr.Engine
	store  *store.Store
	cfg    *config.Config
	log    *zap.Logger

	clock func() time.Time
}

// NewObserver wires an observation loop. Run must be called to start it.
func NewObserver(capt screen.Capturer, engine ocr.Engine, st *store.Store, cfg *config.Config, log *zap.Logger) *Observer {
	return &Observer{capt: capt, engine: engine, store: st, cfg: cfg, log: log, clock: time.Now}
}

// Run scans at the configured interval until ctx is canceled. The first scan
// happens after one full interval, not immediately.
func (o *Observer) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.ObserveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Scan(ctx)
		}
	}
}

// Scan performs one observation pass over the frontmost window.
func (o *Observer) Scan(ctx context.Context) {
	windows, err := o.capt.Windows(ctx)
	if err != nil || len(windows) == 0 {
		return
	}
	front := windows[0]
	if front.Bounds.Empty() {
		return
	}

	img, err := o.capt.CaptureComposite(ctx, front.Bounds)
	if err != nil || img == nil {
		o.log.Debug("observation capture failed", zap.String("app", front.App), zap.Error(err))
		return
	}

	blocks, err := o.engine.Recognize(ctx, img)
	if err != nil {
		o.log.Debug("observation recognize failed", zap.String("app", front.App), zap.Error(err))
		return
	}

	now := o.clock()
	for _, b := range blocks {
		o.store.Ingest(store.TextBlock{
			Text:       b.Text,
			Bounds:     b.Bounds.InPixels(front.Bounds),
			App:        front.App,
			Window:     front.Title,
			URL:        front.URL,
			Time:       now,
			Confidence: b.Confidence,
		})
	}
}
