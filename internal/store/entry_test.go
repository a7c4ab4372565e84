package store

import "testing"

func TestClean(t *testing.T) {
	got := Clean("  hello\n\tworld  \n")
	if got != "hello world" {
		t.Errorf("Clean = %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	a := NormalizeKey("Hello   World")
	b := NormalizeKey("hello world")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

func TestEntryID_Stable(t *testing.T) {
	if EntryID("hello world") != EntryID("hello world") {
		t.Error("EntryID must be deterministic")
	}
	if EntryID("hello world") == EntryID("hello worlds") {
		t.Error("distinct keys should not collide")
	}
	if len(EntryID("x")) != 16 {
		t.Errorf("ID length = %d, want 16 hex chars", len(EntryID("x")))
	}
}

func TestMeaningful(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"ab", false},             // too short
		{"(,.", false},            // 3-char punctuation-only
		{"1024, 768", false},      // coordinate-like
		{"(12, 34)", false},       // coordinate-like
		{"--------", false},       // repetitive
		{"============", false},   // repetitive
		{"AXUIElement 0x600", false},
		{"[object Object]", false},
		{"hello world", true},
		{"v2.1 release notes", true},
	}
	for _, tc := range cases {
		if got := Meaningful(tc.text); got != tc.want {
			t.Errorf("Meaningful(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSignificantWords(t *testing.T) {
	words := SignificantWords("The quick brown fox and the lazy dog")
	for _, want := range []string{"quick", "brown", "fox", "lazy", "dog"} {
		if _, ok := words[want]; !ok {
			t.Errorf("missing %q", want)
		}
	}
	if _, ok := words["the"]; ok {
		t.Error("stopword 'the' should be excluded")
	}
	if _, ok := words["and"]; ok {
		t.Error("stopword 'and' should be excluded")
	}
}
