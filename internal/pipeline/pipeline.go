// Package pipeline orchestrates the context resolution subsystem: the
// continuous observation loop feeding the store, and the trigger sequence
// locate -> retrieve -> assemble -> audit -> complete.
package pipeline

import (
	"context"
	"image"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"glimpse/internal/assemble"
	"glimpse/internal/caret"
	"glimpse/internal/classify"
	"glimpse/internal/config"
	"glimpse/internal/errors"
	"glimpse/internal/store"
)

// Oracle is the out-of-scope completion step, consumed as an interface.
type Oracle interface {
	Complete(ctx context.Context, prompt string) ([]string, error)
}

// minRankableWords is how many significant words the caret context needs
// before similarity ranking beats plain recency.
const minRankableWords = 2

// Pipeline runs the hotkey-triggered resolution sequence. Triggers are
// single-flight: one arriving mid-resolution is dropped with a BUSY error,
// never run concurrently against the same capture state.
type Pipeline struct {
	locator *caret.Locator
	store   *store.Store
	oracle  Oracle
	cfg     *config.Config
	log     *zap.Logger

	busy sync.Mutex
}

// New wires the pipeline. oracle may be nil; Trigger then stops after the
// audit append and returns no suggestions.
func New(locator *caret.Locator, st *store.Store, oracle Oracle, cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{locator: locator, store: st, oracle: oracle, cfg: cfg, log: log}
}

// Trigger resolves context at the caret point and hands the assembled bundle
// to the completion oracle. The bundle is always returned, even when empty;
// callers treat an empty bundle as "insufficient context".
func (p *Pipeline) Trigger(ctx context.Context, pt image.Point) (assemble.Bundle, []string, error) {
	if !p.busy.TryLock() {
		p.log.Debug("trigger dropped, resolution in flight")
		return assemble.Bundle{}, nil, errors.NewBusy()
	}
	defer p.busy.Unlock()

	id := ulid.Make().String()
	snap := p.locator.Resolve(ctx, pt)
	p.log.Debug("caret resolved",
		zap.String("trigger", id),
		zap.String("tier", snap.Tier.String()),
		zap.String("app", snap.App))

	bundle := assemble.Build(assemble.Input{
		Snapshot: snap,
		History:  p.history(snap),
		MaxLines: p.cfg.MaxHistoryLines,
		MaxChars: p.cfg.MaxBundleChars,
		Marker:   p.cfg.CaretMarker,
	})

	prompt := bundle.Render()
	p.store.AppendAudit(prompt)

	if p.oracle == nil {
		return bundle, nil, nil
	}
	suggestions, err := p.oracle.Complete(ctx, prompt)
	if err != nil {
		p.log.Warn("completion failed", zap.String("trigger", id), zap.Error(err))
		return bundle, nil, err
	}
	return bundle, suggestions, nil
}

// history picks the retrieval mode: similarity ranking when the caret
// context carries enough signal, everything-recent otherwise.
func (p *Pipeline) history(snap caret.Snapshot) []string {
	floor := classify.ParseImportance(p.cfg.MinImportance)
	caretContext := snap.Before + " " + snap.After

	if len(store.SignificantWords(caretContext)) >= minRankableWords {
		return p.store.Retrieve(caretContext, floor, p.cfg.MaxHistoryLines)
	}

	// Recent mode returns most-recent-last; the assembler wants strongest
	// first, so flip it.
	recent := p.store.Recent(p.cfg.MaxHistoryLines)
	flipped := make([]string, len(recent))
	for i, text := range recent {
		flipped[len(recent)-1-i] = text
	}
	return flipped
}
