package annotations

import (
	"slices"

	"github.com/menta2k/image-annotator/pkg/types"
)

// Stroke is a freehand polyline in original image coordinates
type Stroke struct {
	Points []types.Point `json:"points"`
}

// EnclosingBB returns the bounding box of the stroke
func (s Stroke) EnclosingBB() (types.BB, bool) {
	bb, err := types.EnclosingBB(s.Points)
	return bb, err == nil
}

// Translate moves every point. The move is rejected if any point would
// leave the image.
func (s Stroke) Translate(dx, dy int, shape types.Shape) (Stroke, bool) {
	out := Stroke{Points: make([]types.Point, len(s.Points))}
	for i, p := range s.Points {
		x, y := int(p.X)+dx, int(p.Y)+dy
		if x < 0 || y < 0 || x >= int(shape.W) || y >= int(shape.H) {
			return Stroke{}, false
		}
		out.Points[i] = types.Pt(uint32(x), uint32(y))
	}
	return out, true
}

func (s Stroke) clone() Stroke {
	return Stroke{Points: slices.Clone(s.Points)}
}

// BrushAnnotations are the strokes of one image
type BrushAnnotations struct {
	Collection[Stroke]
}

// NewBrushAnnotations creates an empty set of strokes
func NewBrushAnnotations() *BrushAnnotations {
	return &BrushAnnotations{}
}

// BrushFromStrokesCats builds strokes from parallel stroke and category lists
func BrushFromStrokesCats(strokes []Stroke, catIdxs []int) (*BrushAnnotations, error) {
	if len(strokes) != len(catIdxs) {
		return nil, ErrLengthMismatch
	}
	a := NewBrushAnnotations()
	for i, s := range strokes {
		a.Add(s.clone(), catIdxs[i])
	}
	return a, nil
}

// Clone returns an independent copy
func (a *BrushAnnotations) Clone() *BrushAnnotations {
	return &BrushAnnotations{Collection: a.cloneWith(Stroke.clone)}
}

// Strokes returns copies of all strokes
func (a *BrushAnnotations) Strokes() []Stroke {
	out := make([]Stroke, len(a.items))
	for i, it := range a.items {
		out[i] = it.Geometry.clone()
	}
	return out
}

// ToData returns strokes and category indices as parallel lists
func (a *BrushAnnotations) ToData() ([]Stroke, []int) {
	return a.Strokes(), a.CatIdxs()
}

// StartStroke begins a new stroke at p
func (a *BrushAnnotations) StartStroke(p types.Point, catIdx int) {
	a.Add(Stroke{Points: []types.Point{p}}, catIdx)
}

// ExtendLast appends p to the most recent stroke unless it repeats the last point
func (a *BrushAnnotations) ExtendLast(p types.Point) bool {
	if len(a.items) == 0 {
		return false
	}
	last := &a.items[len(a.items)-1].Geometry
	if n := len(last.Points); n > 0 && last.Points[n-1] == p {
		return false
	}
	last.Points = append(last.Points, p)
	return true
}

// SelectedFollowMovement moves all selected strokes by from -> to
func (a *BrushAnnotations) SelectedFollowMovement(from, to types.Point, shape types.Shape) bool {
	dx := int(to.X) - int(from.X)
	dy := int(to.Y) - int(from.Y)
	moved := false
	for i := range a.items {
		if !a.items[i].Selected {
			continue
		}
		if s, ok := a.items[i].Geometry.Translate(dx, dy, shape); ok {
			a.items[i].Geometry = s
			moved = true
		}
	}
	return moved
}

// IndexAt returns the most recent stroke whose bounding box contains p
func (a *BrushAnnotations) IndexAt(p types.Point) (int, bool) {
	for i := len(a.items) - 1; i >= 0; i-- {
		if bb, ok := a.items[i].Geometry.EnclosingBB(); ok && bb.Contains(p) {
			return i, true
		}
	}
	return 0, false
}
