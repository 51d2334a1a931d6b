package keymap

import (
	"errors"
	"testing"
)

func TestChordResolvesAfterFullSequence(t *testing.T) {
	m := New()
	if err := m.Bind([]string{"Z", "Z"}, []string{"q"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	r := m.Press("Z")
	if r.Matched || !r.Continuing {
		t.Fatalf("first Z should be pending/continuing, got %+v", r)
	}
	r = m.Press("Z")
	if !r.Matched || len(r.Target) != 1 || r.Target[0] != "q" {
		t.Fatalf("second Z should match (q), got %+v", r)
	}

	// No carryover: the next Z starts a fresh sequence.
	r = m.Press("Z")
	if r.Matched || !r.Continuing {
		t.Fatalf("Z after a match should start fresh, got %+v", r)
	}
}

func TestUnmatchedSequenceDropsBuffer(t *testing.T) {
	m := New()
	if err := m.Bind([]string{"Z", "Z"}, []string{"q"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if r := m.Press("Z"); !r.Continuing {
		t.Fatalf("Z should be continuing, got %+v", r)
	}
	r := m.Press("x")
	if r.Matched || r.Continuing {
		t.Fatalf("Zx matches nothing: expected plain fallthrough, got %+v", r)
	}

	// Buffer was reset, not replayed.
	if r := m.Press("Z"); !r.Continuing {
		t.Fatalf("Z after reset should behave as a fresh start, got %+v", r)
	}
}

func TestExactMatchPreemptsLongerBinding(t *testing.T) {
	m := New()
	if err := m.Bind([]string{"a", "b"}, []string{"x"}); err != nil {
		t.Fatalf("bind ab: %v", err)
	}
	if err := m.Bind([]string{"a", "b", "c"}, []string{"y"}); err != nil {
		t.Fatalf("bind abc: %v", err)
	}

	m.Press("a")
	r := m.Press("b")
	if !r.Matched || r.Target[0] != "x" {
		t.Fatalf("ab must resolve immediately even though abc is bound, got %+v", r)
	}
	// abc is therefore unreachable; the trailing c stands alone.
	r = m.Press("c")
	if r.Matched || r.Continuing {
		t.Fatalf("lone c matches nothing, got %+v", r)
	}
}

func TestSingleKeyBinding(t *testing.T) {
	m := New()
	if err := m.Bind([]string{"a"}, []string{"enter"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	r := m.Press("a")
	if !r.Matched || r.Target[0] != "enter" {
		t.Fatalf("single-key binding should match at once, got %+v", r)
	}
}

func TestBindUnbindWhilePending(t *testing.T) {
	m := New()
	if err := m.Bind([]string{"g", "g"}, []string{"home"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	m.Press("g")

	if err := m.Bind([]string{"a"}, []string{"b"}); !errors.Is(err, ErrPending) {
		t.Fatalf("bind while pending: expected ErrPending, got %v", err)
	}
	if err := m.Unbind([]string{"g", "g"}); !errors.Is(err, ErrPending) {
		t.Fatalf("unbind while pending: expected ErrPending, got %v", err)
	}

	// Failed bind/unbind must leave the mapping and pending state intact.
	r := m.Press("g")
	if !r.Matched || r.Target[0] != "home" {
		t.Fatalf("mapping should be unchanged after rejected rebind, got %+v", r)
	}
}

func TestUnbindAbsentIsNoop(t *testing.T) {
	m := New()
	if err := m.Unbind([]string{"nope"}); err != nil {
		t.Fatalf("unbind absent: %v", err)
	}
}

func TestBindOverwrites(t *testing.T) {
	m := New()
	_ = m.Bind([]string{"x"}, []string{"a"})
	_ = m.Bind([]string{"x"}, []string{"b"})
	r := m.Press("x")
	if !r.Matched || r.Target[0] != "b" {
		t.Fatalf("later bind should overwrite, got %+v", r)
	}
}
