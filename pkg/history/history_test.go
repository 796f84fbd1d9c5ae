package history

import (
	"slices"
	"testing"
)

type state struct {
	values []int
}

func (s state) Clone() state {
	return state{values: slices.Clone(s.values)}
}

func st(v ...int) state {
	return state{values: v}
}

func TestUndoRedo(t *testing.T) {
	h := New[state](10)
	a, b := st(1), st(1, 2)

	h.Push(Record[state]{Data: a, Actor: "test"})
	h.Push(Record[state]{Data: b, Actor: "test"})

	got, ok := h.Undo(b)
	if !ok || !slices.Equal(got.values, a.values) {
		t.Fatalf("Expected undo to return %v, got %v (ok=%v)", a.values, got.values, ok)
	}

	got, ok = h.Redo(got)
	if !ok || !slices.Equal(got.values, b.values) {
		t.Fatalf("Expected redo to return %v, got %v (ok=%v)", b.values, got.values, ok)
	}

	got, _ = h.Undo(got)
	got, ok = h.Undo(got)
	if ok {
		t.Error("Expected undo beyond the oldest record to fail")
	}
	if !slices.Equal(got.values, a.values) {
		t.Errorf("Expected failed undo to keep %v, got %v", a.values, got.values)
	}

	if _, ok := h.Redo(got); !ok {
		t.Error("Expected redo after undo to succeed")
	}
	if _, ok := h.Redo(b); ok {
		t.Error("Expected redo at the newest record to fail")
	}
}

func TestUndoKeepsLiveEdits(t *testing.T) {
	h := New[state](10)
	h.Push(Record[state]{Data: st(1)})
	h.Push(Record[state]{Data: st(2)})

	live := st(2, 3)
	prev, _ := h.Undo(live)
	if !slices.Equal(prev.values, []int{1}) {
		t.Fatalf("Expected [1], got %v", prev.values)
	}
	next, _ := h.Redo(prev)
	if !slices.Equal(next.values, []int{2, 3}) {
		t.Errorf("Expected redo to restore the live state [2 3], got %v", next.values)
	}
}

func TestPushTruncatesRedo(t *testing.T) {
	h := New[state](10)
	h.Push(Record[state]{Data: st(1)})
	h.Push(Record[state]{Data: st(2)})
	cur, _ := h.Undo(st(2))

	h.Push(Record[state]{Data: st(9), Actor: "other"})
	if h.CanRedo() {
		t.Error("Expected push to drop the redo tail")
	}
	if h.Len() != 2 || h.Actor() != "other" {
		t.Errorf("Expected 2 records with actor other, got %d and %q", h.Len(), h.Actor())
	}

	got, ok := h.Undo(st(9))
	if !ok || !slices.Equal(got.values, cur.values) {
		t.Errorf("Expected %v, got %v", cur.values, got.values)
	}
}

func TestPushClones(t *testing.T) {
	h := New[state](10)
	s := st(1)
	h.Push(Record[state]{Data: s})
	h.Push(Record[state]{Data: st(2)})
	s.values[0] = 42

	got, _ := h.Undo(st(2))
	if got.values[0] != 1 {
		t.Errorf("Expected stored record to be independent, got %v", got.values)
	}
}

func TestCapacity(t *testing.T) {
	h := New[state](3)
	for i := 0; i < 5; i++ {
		h.Push(Record[state]{Data: st(i)})
	}
	if h.Len() != 3 {
		t.Fatalf("Expected 3 records, got %d", h.Len())
	}

	cur := st(4)
	var ok bool
	for i := 0; i < 2; i++ {
		cur, ok = h.Undo(cur)
		if !ok {
			t.Fatalf("Expected undo %d to succeed", i)
		}
	}
	if !slices.Equal(cur.values, []int{2}) {
		t.Errorf("Expected oldest kept record [2], got %v", cur.values)
	}
	if h.CanUndo() {
		t.Error("Expected no more undo")
	}
}

func TestEmpty(t *testing.T) {
	h := New[state](0)
	if _, ok := h.Undo(st(1)); ok {
		t.Error("Expected undo on empty history to fail")
	}
	if _, ok := h.Redo(st(1)); ok {
		t.Error("Expected redo on empty history to fail")
	}
	if h.Cursor() != -1 {
		t.Errorf("Expected cursor -1, got %d", h.Cursor())
	}
}

func BenchmarkPush(b *testing.B) {
	h := New[state](DefaultCapacity)
	s := st(1, 2, 3, 4)
	for i := 0; i < b.N; i++ {
		h.Push(Record[state]{Data: s})
	}
}
