package annotations

import (
	"fmt"
	"slices"
	"strings"

	"github.com/menta2k/image-annotator/pkg/types"
)

// Edge selects which edges of a box a resize moves
type Edge int

const (
	// EdgeMin moves the top and left edges
	EdgeMin Edge = iota
	// EdgeMax moves the bottom and right edges
	EdgeMax
)

// SplitMode couples boxes that share an edge. In horizontal mode boxes are
// stacked on top of each other and only move along y. Vertical mode is the
// same along x.
type SplitMode int

const (
	SplitNone SplitMode = iota
	SplitHorizontal
	SplitVertical
)

var (
	minShapeHorizontal = types.NewShape(1, 30)
	minShapeVertical   = types.NewShape(30, 1)
)

func (m SplitMode) String() string {
	switch m {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	default:
		return "none"
	}
}

// ParseSplitMode parses "none", "horizontal" or "vertical"
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SplitNone, nil
	case "horizontal":
		return SplitHorizontal, nil
	case "vertical":
		return SplitVertical, nil
	}
	return SplitNone, fmt.Errorf("unknown split mode %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (m SplitMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *SplitMode) UnmarshalText(text []byte) error {
	parsed, err := ParseSplitMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// restrict drops the movement component the mode does not allow
func (m SplitMode) restrict(dx, dy int) (int, int) {
	switch m {
	case SplitHorizontal:
		return 0, dy
	case SplitVertical:
		return dx, 0
	}
	return dx, dy
}

func shiftFn(edge Edge, dx, dy int, shape types.Shape) func(types.BB) (types.BB, bool) {
	if edge == EdgeMin {
		return func(bb types.BB) (types.BB, bool) { return bb.ShiftMin(dx, dy, shape) }
	}
	return func(bb types.BB) (types.BB, bool) { return bb.ShiftMax(dx, dy, shape) }
}

// ResizeSelected shifts the given edges of selected boxes. Boxes whose
// resize would leave the image or collapse stay as they are. Unselected
// boxes are never touched.
func ResizeSelected(bbs []types.BB, selected []bool, dx, dy int, shape types.Shape, edge Edge) []types.BB {
	out := slices.Clone(bbs)
	shift := shiftFn(edge, dx, dy, shape)
	for i, sel := range selected {
		if !sel || i >= len(out) {
			continue
		}
		if r, ok := shift(out[i]); ok {
			out[i] = r
		}
	}
	return out
}

// ResizeBBs resizes the selected boxes like ResizeSelected. In split mode
// the movement is restricted to the split axis and every box whose
// opposite edge coincides with the moved edge follows, so that stacked
// boxes neither overlap nor open a gap. A selected box and the boxes it
// drags along move together or not at all, and no box moves twice.
func (m SplitMode) ResizeBBs(bbs []types.BB, selected []bool, dx, dy int, shape types.Shape, edge Edge) []types.BB {
	if m == SplitNone {
		return ResizeSelected(bbs, selected, dx, dy, shape, edge)
	}
	dx, dy = m.restrict(dx, dy)

	axis := 1
	if m == SplitVertical {
		axis = 0
	}
	// the moved edge of a selected box and the coupled edge of a neighbor
	movedEdge := func(bb types.BB) uint32 {
		lo, hi := bb.MinMax(axis)
		if edge == EdgeMin {
			return lo
		}
		return hi
	}
	coupledEdge := func(bb types.BB) uint32 {
		lo, hi := bb.MinMax(axis)
		if edge == EdgeMin {
			return hi
		}
		return lo
	}
	opposite := EdgeMin
	if edge == EdgeMin {
		opposite = EdgeMax
	}
	shiftSel := shiftFn(edge, dx, dy, shape)
	shiftCoupled := shiftFn(opposite, dx, dy, shape)

	out := slices.Clone(bbs)
	coupled := make(map[int]bool)
	for s, sel := range selected {
		if !sel || s >= len(out) {
			continue
		}
		newSel, ok := shiftSel(out[s])
		if !ok {
			continue
		}
		type move struct {
			idx int
			bb  types.BB
		}
		var moves []move
		feasible := true
		for j, other := range bbs {
			if j == s || coupled[j] || coupledEdge(other) != movedEdge(bbs[s]) {
				continue
			}
			moved, ok := shiftCoupled(out[j])
			if !ok {
				feasible = false
				break
			}
			moves = append(moves, move{idx: j, bb: moved})
		}
		if !feasible {
			continue
		}
		out[s] = newSel
		for _, mv := range moves {
			out[mv.idx] = mv.bb
			coupled[mv.idx] = true
		}
	}
	return out
}

// FollowMovement moves a box by the vector from -> to. In split mode the
// movement is restricted to the split axis and a box touching the image
// border grows or shrinks instead of leaving its border.
func (m SplitMode) FollowMovement(bb types.BB, from, to types.Point, shape types.Shape) (types.BB, bool) {
	switch m {
	case SplitHorizontal:
		to = types.Pt(from.X, to.Y)
		dy := int(to.Y) - int(from.Y)
		switch {
		case dy > 0 && bb.Y == 0:
			return bb.ShiftMax(0, dy, shape)
		case dy < 0 && bb.YMax() == shape.H:
			return bb.ShiftMin(0, dy, shape)
		}
		return bb.FollowMovement(from, to, shape, types.ResizeTo(minShapeHorizontal))
	case SplitVertical:
		to = types.Pt(to.X, from.Y)
		dx := int(to.X) - int(from.X)
		switch {
		case dx > 0 && bb.X == 0:
			return bb.ShiftMax(dx, 0, shape)
		case dx < 0 && bb.XMax() == shape.W:
			return bb.ShiftMin(dx, 0, shape)
		}
		return bb.FollowMovement(from, to, shape, types.ResizeTo(minShapeVertical))
	}
	return bb.FollowMovement(from, to, shape, types.Deny)
}
