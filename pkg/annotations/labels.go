package annotations

import (
	"fmt"
	"slices"

	"github.com/menta2k/image-annotator/pkg/colors"
)

// DefaultLabel is the category every new table starts with
const DefaultLabel = "foreground"

var defaultColor = colors.RGB{255, 255, 255}

// LabelTable is the ordered list of categories. Labels, colors and
// category ids are parallel and each of them is unique.
type LabelTable struct {
	labels  []string
	colors  []colors.RGB
	catIDs  []uint32
	current int
}

// NewLabelTable creates a table with a single white category with id 1
func NewLabelTable(label string) *LabelTable {
	if label == "" {
		label = DefaultLabel
	}
	return &LabelTable{
		labels: []string{label},
		colors: []colors.RGB{defaultColor},
		catIDs: []uint32{1},
	}
}

// EmptyLabelTable creates a table without categories, used while importing
func EmptyLabelTable() *LabelTable {
	return &LabelTable{}
}

// Len returns the number of categories
func (t *LabelTable) Len() int {
	return len(t.labels)
}

// Labels returns a copy of all labels
func (t *LabelTable) Labels() []string {
	return slices.Clone(t.labels)
}

// Colors returns a copy of all colors
func (t *LabelTable) Colors() []colors.RGB {
	return slices.Clone(t.colors)
}

// CatIDs returns a copy of all category ids
func (t *LabelTable) CatIDs() []uint32 {
	return slices.Clone(t.catIDs)
}

// Label returns the label of category idx
func (t *LabelTable) Label(idx int) (string, bool) {
	if idx < 0 || idx >= len(t.labels) {
		return "", false
	}
	return t.labels[idx], true
}

// Color returns the color of category idx
func (t *LabelTable) Color(idx int) (colors.RGB, bool) {
	if idx < 0 || idx >= len(t.colors) {
		return colors.RGB{}, false
	}
	return t.colors[idx], true
}

// Find returns the index of label
func (t *LabelTable) Find(label string) (int, bool) {
	idx := slices.Index(t.labels, label)
	return idx, idx >= 0
}

// Current is the category new annotations get
func (t *LabelTable) Current() int {
	return t.current
}

// SetCurrent selects the category for new annotations
func (t *LabelTable) SetCurrent(idx int) error {
	if idx < 0 || idx >= len(t.labels) {
		return fmt.Errorf("cannot select category %d of %d: %w", idx, len(t.labels), ErrCatIdxOutOfRange)
	}
	t.current = idx
	return nil
}

// Push appends a category. A nil color is drawn to be distinct from the
// existing ones, a nil id becomes the largest id plus one. Duplicates are
// rejected and leave the table unchanged.
func (t *LabelTable) Push(label string, color *colors.RGB, catID *uint32) error {
	if slices.Contains(t.labels, label) {
		return fmt.Errorf("label %q: %w", label, ErrDuplicateLabel)
	}

	var clr colors.RGB
	if color != nil {
		clr = *color
		if slices.Contains(t.colors, clr) {
			return fmt.Errorf("color %v for label %q: %w", clr, label, ErrDuplicateColor)
		}
	} else {
		clr = colors.NewColor(t.colors)
		for slices.Contains(t.colors, clr) {
			clr = colors.NewColor(t.colors)
		}
	}

	var id uint32
	if catID != nil {
		id = *catID
		if slices.Contains(t.catIDs, id) {
			return fmt.Errorf("category id %d for label %q: %w", id, label, ErrDuplicateCatID)
		}
	} else {
		id = 1
		if len(t.catIDs) > 0 {
			id = slices.Max(t.catIDs) + 1
		}
	}

	t.labels = append(t.labels, label)
	t.colors = append(t.colors, clr)
	t.catIDs = append(t.catIDs, id)
	return nil
}

// Remove deletes category idx. The last category cannot be removed.
func (t *LabelTable) Remove(idx int) error {
	if len(t.labels) <= 1 {
		return ErrLastCategory
	}
	if idx < 0 || idx >= len(t.labels) {
		return fmt.Errorf("cannot remove category %d of %d: %w", idx, len(t.labels), ErrCatIdxOutOfRange)
	}
	t.labels = slices.Delete(t.labels, idx, idx+1)
	t.colors = slices.Delete(t.colors, idx, idx+1)
	t.catIDs = slices.Delete(t.catIDs, idx, idx+1)
	if t.current >= max(idx, 1) {
		t.current--
	}
	return nil
}

// Rename changes the label of category idx
func (t *LabelTable) Rename(idx int, label string) error {
	if idx < 0 || idx >= len(t.labels) {
		return fmt.Errorf("cannot rename category %d of %d: %w", idx, len(t.labels), ErrCatIdxOutOfRange)
	}
	if j, ok := t.Find(label); ok && j != idx {
		return fmt.Errorf("label %q: %w", label, ErrDuplicateLabel)
	}
	t.labels[idx] = label
	return nil
}

// Clone returns an independent copy
func (t *LabelTable) Clone() *LabelTable {
	return &LabelTable{
		labels:  slices.Clone(t.labels),
		colors:  slices.Clone(t.colors),
		catIDs:  slices.Clone(t.catIDs),
		current: t.current,
	}
}
