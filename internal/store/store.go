// Package store is the append-only, deduplicating, importance-ranked
// repository of observed on-screen text. All mutable state lives behind a
// single mutex-guarded monitor: ingest, flush and retrieval are serialized
// through one entry point and never expose torn intermediate state.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"glimpse/internal/classify"
	"glimpse/internal/config"
)

// Store owns the content map, the per-group buffers and the flushed-key
// sets. Construct with Open, release with Close (which performs the final
// flush).
type Store struct {
	cfg   *config.Config
	log   *zap.Logger
	clock func() time.Time

	mu        sync.Mutex
	journal   *Journal
	entries   map[string]*ContentEntry           // normalized key -> entry
	groups    map[GroupKey]*groupBuffer          // current-cycle buffers
	flushed   map[GroupKey]map[string]struct{}   // keys ever journaled per group
	pending   int                                // entries created since last flush
	dirty     bool                               // any new entry since last flush
	lastFlush time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open creates the store over the journal at path, creating the file if
// absent and replaying existing records to seed the ranking map and the
// flushed-key sets. The periodic flush goroutine starts immediately.
func Open(path string, cfg *config.Config, log *zap.Logger) (*Store, error) {
	journal, err := OpenJournal(path, log)
	if err != nil {
		return nil, err
	}

	s := &Store{
		cfg:       cfg,
		log:       log,
		clock:     time.Now,
		journal:   journal,
		entries:   make(map[string]*ContentEntry),
		groups:    make(map[GroupKey]*groupBuffer),
		flushed:   make(map[GroupKey]map[string]struct{}),
		lastFlush: time.Now(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if err := journal.Replay(s.seed); err != nil {
		log.Warn("journal replay incomplete", zap.Error(err))
	}

	go s.flushLoop()
	return s, nil
}

// seed reconstructs an entry from a replayed record. Replayed entries carry
// zero timestamps: they participate in similarity ranking but earn no
// recency credit, and their keys are marked flushed so the same text for the
// same group is never re-emitted across restarts.
func (s *Store) seed(rec Record) {
	if rec.App == AuditApp && rec.Window == AuditWindow {
		return
	}
	gk := GroupKey{App: rec.App, Window: rec.Window, URL: rec.URL}
	for _, text := range rec.Texts {
		cleaned := Clean(text)
		key := NormalizeKey(cleaned)
		if key == "" {
			continue
		}
		if _, ok := s.entries[key]; !ok {
			result := classify.Classify(cleaned)
			s.entries[key] = &ContentEntry{
				ID:         EntryID(key),
				Text:       cleaned,
				ViewCount:  1,
				Category:   result.Category,
				Importance: result.Importance,
				Signature:  SignificantWords(cleaned),
				App:        rec.App,
				Window:     rec.Window,
				URL:        rec.URL,
			}
		}
		s.markFlushed(gk, key)
	}
}

// Ingest runs the full ingest algorithm on one observed block. Fire and
// forget: rejected text disappears silently, and flushing happens inline
// when the pending threshold trips.
func (s *Store) Ingest(b TextBlock) {
	cleaned := Clean(b.Text)
	if !Meaningful(cleaned) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := b.Time
	if now.IsZero() {
		now = s.clock()
	}

	key := NormalizeKey(cleaned)
	if entry, ok := s.entries[key]; ok {
		// Text is immutable; repeat sightings only update recency.
		entry.LastSeen = now
		entry.ViewCount++
	} else {
		result := classify.Classify(cleaned)
		s.entries[key] = &ContentEntry{
			ID:         EntryID(key),
			Text:       cleaned,
			FirstSeen:  now,
			LastSeen:   now,
			ViewCount:  1,
			Category:   result.Category,
			Importance: result.Importance,
			Signature:  SignificantWords(cleaned),
			App:        b.App,
			Window:     b.Window,
			URL:        b.URL,
		}
		s.pending++
		s.dirty = true
	}

	gk := GroupKey{App: b.App, Window: b.Window, URL: b.URL}
	buf, ok := s.groups[gk]
	if !ok {
		buf = &groupBuffer{}
		s.groups[gk] = buf
	}
	buf.add(cleaned, s.cfg.CoalesceTolerance)

	if s.pending > s.cfg.FlushThreshold {
		s.flushLocked()
	}
}

// Flush forces a flush cycle. No-op when nothing new was ingested.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// flushLocked writes one record per non-empty group, skipping texts already
// journaled for that group, then clears the cycle state. Callers hold mu.
func (s *Store) flushLocked() {
	if !s.dirty {
		s.lastFlush = s.clock()
		return
	}

	for gk, buf := range s.groups {
		texts := make([]string, 0, len(buf.texts))
		for _, t := range buf.texts {
			if s.isFlushed(gk, NormalizeKey(t)) {
				continue
			}
			texts = append(texts, t)
		}
		if len(texts) == 0 {
			continue
		}
		rec := Record{App: gk.App, Window: gk.Window, URL: gk.URL, Texts: texts}
		if err := s.journal.Append(rec); err != nil {
			s.log.Error("flush append failed", zap.Error(err))
			continue
		}
		for _, t := range texts {
			s.markFlushed(gk, NormalizeKey(t))
		}
	}

	s.groups = make(map[GroupKey]*groupBuffer)
	s.pending = 0
	s.dirty = false
	s.lastFlush = s.clock()
}

func (s *Store) isFlushed(gk GroupKey, key string) bool {
	set, ok := s.flushed[gk]
	if !ok {
		return false
	}
	_, done := set[key]
	return done
}

func (s *Store) markFlushed(gk GroupKey, key string) {
	set, ok := s.flushed[gk]
	if !ok {
		set = make(map[string]struct{})
		s.flushed[gk] = set
	}
	set[key] = struct{}{}
}

// AppendAudit journals an assembled prompt under the audit pseudo-identity.
func (s *Store) AppendAudit(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.journal.AppendAudit(prompt); err != nil {
		s.log.Error("audit append failed", zap.Error(err))
	}
}

// Journal exposes the underlying journal for read-only inspection.
func (s *Store) Journal() *Journal {
	return s.journal
}

// Len reports how many distinct entries the ranking map holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// flushLoop drives the interval-based flush until Close.
func (s *Store) flushLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if s.dirty && s.clock().Sub(s.lastFlush) >= s.cfg.FlushInterval {
				s.flushLocked()
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Close stops the flush goroutine, performs the final flush and releases
// the journal. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()
		s.flushLocked()
		s.closeErr = s.journal.Close()
	})
	return s.closeErr
}
