package store

import "testing"

func TestGroupBuffer_CoalescesIncrementalTyping(t *testing.T) {
	buf := &groupBuffer{}
	buf.add("Hel", 30)
	buf.add("Hello", 30)
	buf.add("Hello wor", 30)

	if len(buf.texts) != 1 {
		t.Fatalf("len(texts) = %d, want 1", len(buf.texts))
	}
	if buf.texts[0] != "Hello wor" {
		t.Errorf("texts[0] = %q, want final superset", buf.texts[0])
	}
}

func TestGroupBuffer_DiscardsLatePrefix(t *testing.T) {
	buf := &groupBuffer{}
	buf.add("Hello world", 30)
	buf.add("Hello", 30)

	if len(buf.texts) != 1 || buf.texts[0] != "Hello world" {
		t.Errorf("texts = %v, want settled superset only", buf.texts)
	}
}

func TestGroupBuffer_ToleranceBound(t *testing.T) {
	buf := &groupBuffer{}
	short := "intro"
	long := short + " followed by a much longer paragraph of settled text"
	buf.add(short, 10)
	buf.add(long, 10)

	// Outside tolerance the strings are distinct content, not typing.
	if len(buf.texts) != 2 {
		t.Errorf("len(texts) = %d, want 2 (containment beyond tolerance)", len(buf.texts))
	}
}

func TestGroupBuffer_ExactDuplicate(t *testing.T) {
	buf := &groupBuffer{}
	buf.add("same text", 30)
	buf.add("same text", 30)
	if len(buf.texts) != 1 {
		t.Errorf("len(texts) = %d, want 1", len(buf.texts))
	}
}

func TestGroupBuffer_UnrelatedStrings(t *testing.T) {
	buf := &groupBuffer{}
	buf.add("first sentence", 30)
	buf.add("second sentence", 30)
	if len(buf.texts) != 2 {
		t.Errorf("len(texts) = %d, want 2", len(buf.texts))
	}
}
