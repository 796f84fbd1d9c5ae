package annotations

import (
	"fmt"

	"github.com/menta2k/image-annotator/pkg/types"
)

// BboxAnnotations are the bounding boxes of one image
type BboxAnnotations struct {
	Collection[types.BB]
}

// NewBboxAnnotations creates an empty set of boxes
func NewBboxAnnotations() *BboxAnnotations {
	return &BboxAnnotations{}
}

// BboxFromBBsCats builds boxes from parallel box and category lists. Boxes
// without area are rejected.
func BboxFromBBsCats(bbs []types.BB, catIdxs []int) (*BboxAnnotations, error) {
	if len(bbs) != len(catIdxs) {
		return nil, fmt.Errorf("%d boxes but %d category indices: %w", len(bbs), len(catIdxs), ErrLengthMismatch)
	}
	a := NewBboxAnnotations()
	for i, bb := range bbs {
		if bb.W == 0 || bb.H == 0 {
			return nil, fmt.Errorf("box %d %s: %w", i, bb, types.ErrInvalidBB)
		}
		a.Add(bb, catIdxs[i])
	}
	return a, nil
}

// Clone returns an independent copy
func (a *BboxAnnotations) Clone() *BboxAnnotations {
	return &BboxAnnotations{Collection: a.cloneWith(func(bb types.BB) types.BB { return bb })}
}

// BBs returns all boxes in insertion order
func (a *BboxAnnotations) BBs() []types.BB {
	return a.Geometries()
}

// ToData returns boxes and category indices as parallel lists
func (a *BboxAnnotations) ToData() ([]types.BB, []int) {
	return a.BBs(), a.CatIdxs()
}

func (a *BboxAnnotations) setBBs(bbs []types.BB) {
	for i := range a.items {
		a.items[i].Geometry = bbs[i]
	}
}

// ResizeSelected shifts the chosen edges of all selected boxes
func (a *BboxAnnotations) ResizeSelected(dx, dy int, shape types.Shape, edge Edge, mode SplitMode) {
	a.setBBs(mode.ResizeBBs(a.BBs(), a.SelectedMask(), dx, dy, shape, edge))
}

// SelectedFollowMovement moves all selected boxes by from -> to and reports
// whether any box moved
func (a *BboxAnnotations) SelectedFollowMovement(from, to types.Point, shape types.Shape, mode SplitMode) bool {
	moved := false
	for i := range a.items {
		if !a.items[i].Selected {
			continue
		}
		if bb, ok := mode.FollowMovement(a.items[i].Geometry, from, to, shape); ok {
			a.items[i].Geometry = bb
			moved = true
		}
	}
	return moved
}

// Reshape replaces box idx by bb if bb lies inside shape
func (a *BboxAnnotations) Reshape(idx int, bb types.BB, shape types.Shape) bool {
	if idx < 0 || idx >= len(a.items) || !bb.IsContainedIn(shape) {
		return false
	}
	a.items[idx].Geometry = bb
	return true
}

// IndexAt returns the most recently added box containing p
func (a *BboxAnnotations) IndexAt(p types.Point) (int, bool) {
	for i := len(a.items) - 1; i >= 0; i-- {
		if a.items[i].Geometry.Contains(p) {
			return i, true
		}
	}
	return 0, false
}

// SelectContained selects every box inside region and returns how many
func (a *BboxAnnotations) SelectContained(region types.BB) int {
	n := 0
	for i := range a.items {
		if region.ContainsBB(a.items[i].Geometry) {
			a.items[i].Selected = true
			n++
		}
	}
	return n
}

// FitInto clips every box to shape and drops the ones that vanish. It is
// used when annotations meet an image of a different size.
func (a *BboxAnnotations) FitInto(shape types.Shape) int {
	dropped := 0
	kept := a.items[:0]
	for _, it := range a.items {
		if it.Geometry.X >= shape.W || it.Geometry.Y >= shape.H {
			dropped++
			continue
		}
		g := it.Geometry
		it.Geometry = types.NewBBFitToImage(int(g.X), int(g.Y), int(g.W), int(g.H), shape)
		kept = append(kept, it)
	}
	a.items = kept
	return dropped
}
