// Package annotations holds per-image annotation collections, the label
// table of categories and the per-file store that ties both together.
package annotations

import (
	"iter"
	"slices"
)

// Annotation is one geometry with its category and selection state
type Annotation[G any] struct {
	Geometry G
	CatIdx   int
	Selected bool
}

// Collection keeps annotations in insertion order
type Collection[G any] struct {
	items []Annotation[G]
}

// Len returns the number of annotations
func (c *Collection[G]) Len() int {
	return len(c.items)
}

// Add appends an unselected annotation
func (c *Collection[G]) Add(g G, catIdx int) {
	c.items = append(c.items, Annotation[G]{Geometry: g, CatIdx: catIdx})
}

// At returns the annotation at idx
func (c *Collection[G]) At(idx int) (Annotation[G], bool) {
	if idx < 0 || idx >= len(c.items) {
		return Annotation[G]{}, false
	}
	return c.items[idx], true
}

// All iterates over index and annotation
func (c *Collection[G]) All() iter.Seq2[int, Annotation[G]] {
	return func(yield func(int, Annotation[G]) bool) {
		for i, a := range c.items {
			if !yield(i, a) {
				return
			}
		}
	}
}

// Geometries returns a copy of all geometries
func (c *Collection[G]) Geometries() []G {
	out := make([]G, len(c.items))
	for i, a := range c.items {
		out[i] = a.Geometry
	}
	return out
}

// CatIdxs returns the category index of every annotation
func (c *Collection[G]) CatIdxs() []int {
	out := make([]int, len(c.items))
	for i, a := range c.items {
		out[i] = a.CatIdx
	}
	return out
}

// SelectedMask returns the selection flag of every annotation
func (c *Collection[G]) SelectedMask() []bool {
	out := make([]bool, len(c.items))
	for i, a := range c.items {
		out[i] = a.Selected
	}
	return out
}

// SelectedIndices iterates over the indices of selected annotations
func (c *Collection[G]) SelectedIndices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, a := range c.items {
			if a.Selected && !yield(i) {
				return
			}
		}
	}
}

// NumSelected returns how many annotations are selected
func (c *Collection[G]) NumSelected() int {
	n := 0
	for _, a := range c.items {
		if a.Selected {
			n++
		}
	}
	return n
}

// Remove deletes the annotation at idx and returns it
func (c *Collection[G]) Remove(idx int) (Annotation[G], bool) {
	if idx < 0 || idx >= len(c.items) {
		return Annotation[G]{}, false
	}
	removed := c.items[idx]
	c.items = slices.Delete(c.items, idx, idx+1)
	return removed, true
}

// RemoveSelected deletes all selected annotations and returns how many
func (c *Collection[G]) RemoveSelected() int {
	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(a Annotation[G]) bool { return a.Selected })
	return n - len(c.items)
}

// Clear removes every annotation
func (c *Collection[G]) Clear() {
	c.items = nil
}

// Select sets the selection state of idx
func (c *Collection[G]) Select(idx int, selected bool) bool {
	if idx < 0 || idx >= len(c.items) {
		return false
	}
	c.items[idx].Selected = selected
	return true
}

// ToggleSelection flips the selection state of idx
func (c *Collection[G]) ToggleSelection(idx int) bool {
	if idx < 0 || idx >= len(c.items) {
		return false
	}
	c.items[idx].Selected = !c.items[idx].Selected
	return true
}

// SelectAll selects every annotation
func (c *Collection[G]) SelectAll() {
	for i := range c.items {
		c.items[i].Selected = true
	}
}

// DeselectAll clears every selection
func (c *Collection[G]) DeselectAll() {
	for i := range c.items {
		c.items[i].Selected = false
	}
}

// SetCatIdx changes the category of idx
func (c *Collection[G]) SetCatIdx(idx, catIdx int) bool {
	if idx < 0 || idx >= len(c.items) {
		return false
	}
	c.items[idx].CatIdx = catIdx
	return true
}

// SetCatIdxSelected changes the category of all selected annotations
func (c *Collection[G]) SetCatIdxSelected(catIdx int) int {
	n := 0
	for i := range c.items {
		if c.items[i].Selected {
			c.items[i].CatIdx = catIdx
			n++
		}
	}
	return n
}

// ReduceCatIdxs shifts category indices down after the category at
// removed was deleted. Indices at or above max(removed, 1) decrease by one.
func (c *Collection[G]) ReduceCatIdxs(removed int) {
	threshold := max(removed, 1)
	for i := range c.items {
		if c.items[i].CatIdx >= threshold {
			c.items[i].CatIdx--
		}
	}
}

func (c *Collection[G]) cloneWith(cloneGeometry func(G) G) Collection[G] {
	items := make([]Annotation[G], len(c.items))
	for i, a := range c.items {
		a.Geometry = cloneGeometry(a.Geometry)
		items[i] = a
	}
	return Collection[G]{items: items}
}
