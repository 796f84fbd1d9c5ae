// Package history implements a bounded undo/redo stack of state snapshots
package history

// DefaultCapacity is the number of records kept when none is configured
const DefaultCapacity = 50

// Snapshot is a state that can be deep-copied
type Snapshot[T any] interface {
	Clone() T
}

// Record is one snapshot together with the tool that produced it
type Record[T any] struct {
	Data  T
	Actor string
}

// History keeps records oldest first with a cursor on the current one.
// Pushing after an undo drops the redo tail.
type History[T Snapshot[T]] struct {
	records  []Record[T]
	cursor   int
	capacity int
}

// New creates a history that keeps at most capacity records
func New[T Snapshot[T]](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History[T]{cursor: -1, capacity: capacity}
}

// Len returns the number of stored records
func (h *History[T]) Len() int {
	return len(h.records)
}

// Cursor returns the index of the current record, -1 when empty
func (h *History[T]) Cursor() int {
	return h.cursor
}

// CanUndo reports whether there is an older record
func (h *History[T]) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether there is a newer record
func (h *History[T]) CanRedo() bool {
	return h.cursor >= 0 && h.cursor < len(h.records)-1
}

// Actor returns the producer of the current record
func (h *History[T]) Actor() string {
	if h.cursor < 0 {
		return ""
	}
	return h.records[h.cursor].Actor
}

// Push stores a copy of rec as the new current record
func (h *History[T]) Push(rec Record[T]) {
	rec.Data = rec.Data.Clone()
	if h.cursor+1 < len(h.records) {
		clear(h.records[h.cursor+1:])
		h.records = h.records[:h.cursor+1]
	}
	h.records = append(h.records, rec)
	if over := len(h.records) - h.capacity; over > 0 {
		clear(h.records[:over])
		h.records = append(h.records[:0], h.records[over:]...)
	}
	h.cursor = len(h.records) - 1
}

// Undo steps back. The live state current takes the place of the record
// it leaves and a copy of the older record is returned. Without an older
// record current is returned unchanged together with false.
func (h *History[T]) Undo(current T) (T, bool) {
	if h.cursor <= 0 {
		return current, false
	}
	h.records[h.cursor].Data = current
	h.cursor--
	return h.records[h.cursor].Data.Clone(), true
}

// Redo steps forward and is the inverse of Undo
func (h *History[T]) Redo(current T) (T, bool) {
	if h.cursor < 0 || h.cursor >= len(h.records)-1 {
		return current, false
	}
	h.records[h.cursor].Data = current
	h.cursor++
	return h.records[h.cursor].Data.Clone(), true
}

// Clear drops all records
func (h *History[T]) Clear() {
	h.records = nil
	h.cursor = -1
}
