package annotations

import (
	"slices"

	"github.com/menta2k/image-annotator/pkg/types"
)

// ClipboardData holds copied boxes with their categories
type ClipboardData struct {
	BBs     []types.BB
	CatIdxs []int
}

// CopySelected copies the selected boxes. It returns nil if nothing is selected.
func CopySelected(a *BboxAnnotations) *ClipboardData {
	var cb ClipboardData
	for i := range a.SelectedIndices() {
		cb.BBs = append(cb.BBs, a.items[i].Geometry)
		cb.CatIdxs = append(cb.CatIdxs, a.items[i].CatIdx)
	}
	if len(cb.BBs) == 0 {
		return nil
	}
	return &cb
}

// PasteInto adds the copied boxes that fit into shape and selects them.
// Existing boxes are deselected. It returns the number of pasted boxes.
func (c *ClipboardData) PasteInto(a *BboxAnnotations, shape types.Shape, numLabels int) int {
	a.DeselectAll()
	n := 0
	for i, bb := range c.BBs {
		if !bb.IsContainedIn(shape) || c.CatIdxs[i] >= numLabels {
			continue
		}
		a.Add(bb, c.CatIdxs[i])
		a.Select(a.Len()-1, true)
		n++
	}
	return n
}

// Clone returns an independent copy
func (c *ClipboardData) Clone() *ClipboardData {
	if c == nil {
		return nil
	}
	return &ClipboardData{BBs: slices.Clone(c.BBs), CatIdxs: slices.Clone(c.CatIdxs)}
}
