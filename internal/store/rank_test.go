package store

import (
	"testing"
	"time"

	"glimpse/internal/classify"
)

func TestRetrieve_RanksBySimilarity(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(block("browser", "docs", "kubernetes deployment rollout guide"))
	s.Ingest(block("notes", "personal", "grocery list milk eggs butter"))

	got := s.Retrieve("kubernetes deployment strategy", classify.Noise, 10)
	if len(got) == 0 {
		t.Fatal("no results")
	}
	if got[0] != "kubernetes deployment rollout guide" {
		t.Errorf("top result = %q", got[0])
	}
}

func TestRetrieve_ImportanceFloor(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(block("mail", "compose", "john@example.com"))     // critical
	s.Ingest(block("mail", "compose", "meeting at 9:00 am"))   // datetime, low
	s.Ingest(block("mail", "compose", "OK"))                   // rejected: <3 chars

	got := s.Retrieve("contact john example", classify.High, 10)
	for _, text := range got {
		if text == "meeting at 9:00 am" {
			t.Errorf("low-importance entry leaked through High floor")
		}
	}
	found := false
	for _, text := range got {
		if text == "john@example.com" {
			found = true
		}
	}
	if !found {
		t.Error("critical entry missing from results")
	}
}

func TestRetrieve_ImportanceWeighting(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Now()
	s.clock = func() time.Time { return now }

	// Both match the query; the critical-classified entry must outrank the
	// medium one through its multiplier.
	s.Ingest(TextBlock{Text: "Quarterly Report", App: "a", Window: "w", Time: now})     // two capitalized words: name, critical
	s.Ingest(TextBlock{Text: "quarterly-report.pdf", App: "a", Window: "w", Time: now}) // filename, medium

	got := s.Retrieve("quarterly report", classify.Noise, 2)
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0] != "Quarterly Report" {
		t.Errorf("critical entry should rank first, got %q", got[0])
	}
}

func TestRetrieve_RecencyBonus(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Now()
	s.clock = func() time.Time { return now }

	s.Ingest(TextBlock{Text: "deployment checklist draft alpha", App: "a", Window: "w", Time: now.Add(-48 * time.Hour)})
	s.Ingest(TextBlock{Text: "deployment checklist draft bravo", App: "a", Window: "w", Time: now.Add(-1 * time.Minute)})

	got := s.Retrieve("deployment checklist", classify.Noise, 2)
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0] != "deployment checklist draft bravo" {
		t.Errorf("recent entry should rank first, got %q", got[0])
	}
}

func TestRetrieve_Limit(t *testing.T) {
	s, _ := newTestStore(t)

	for _, w := range []string{"alpha", "bravo", "charlie", "delta"} {
		s.Ingest(block("a", "w", "shared subject matter "+w))
	}

	got := s.Retrieve("shared subject matter", classify.Noise, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want limit 2", len(got))
	}
}

func TestRecent_MostRecentLast(t *testing.T) {
	s, _ := newTestStore(t)
	base := time.Now()

	s.Ingest(TextBlock{Text: "oldest observed sentence", App: "a", Window: "w", Time: base.Add(-3 * time.Hour)})
	s.Ingest(TextBlock{Text: "middle observed sentence", App: "a", Window: "w", Time: base.Add(-2 * time.Hour)})
	s.Ingest(TextBlock{Text: "newest observed sentence", App: "a", Window: "w", Time: base.Add(-1 * time.Hour)})

	got := s.Recent(10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[len(got)-1] != "newest observed sentence" {
		t.Errorf("most recent should be last, got %v", got)
	}
	if got[0] != "oldest observed sentence" {
		t.Errorf("oldest should be first, got %v", got)
	}
}

func TestRecent_LengthFloor(t *testing.T) {
	s, _ := newTestStore(t)

	s.Ingest(block("a", "w", "abcd")) // meaningful but under the recent floor
	s.Ingest(block("a", "w", "long enough sentence"))

	got := s.Recent(10)
	if len(got) != 1 || got[0] != "long enough sentence" {
		t.Errorf("Recent = %v, want the long entry only", got)
	}
}

func TestJaccard(t *testing.T) {
	a := SignificantWords("kubernetes deployment guide")
	b := SignificantWords("deployment guide for kubernetes")
	if got := jaccard(a, b); got != 1.0 {
		t.Errorf("jaccard = %v, want 1.0 for equal sets", got)
	}
	if got := jaccard(a, SignificantWords("completely unrelated words")); got != 0 {
		t.Errorf("jaccard = %v, want 0 for disjoint sets", got)
	}
	if got := jaccard(a, map[string]struct{}{}); got != 0 {
		t.Errorf("jaccard = %v, want 0 for empty set", got)
	}
}

func TestRecencyBonus(t *testing.T) {
	now := time.Now()
	if got := recencyBonus(now, now); got != maxRecencyBonus {
		t.Errorf("bonus now = %v, want max", got)
	}
	if got := recencyBonus(now, now.Add(-25*time.Hour)); got != 0 {
		t.Errorf("bonus beyond horizon = %v, want 0", got)
	}
	half := recencyBonus(now, now.Add(-12*time.Hour))
	if half <= 0 || half >= maxRecencyBonus {
		t.Errorf("bonus mid-horizon = %v, want between 0 and max", half)
	}
	if recencyBonus(now, time.Time{}) != 0 {
		t.Error("zero lastSeen must earn nothing")
	}
}
