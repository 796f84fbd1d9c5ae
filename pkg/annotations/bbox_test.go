package annotations

import (
	"errors"
	"slices"
	"testing"

	"github.com/menta2k/image-annotator/pkg/types"
)

// createTestBoxes creates three overlapping boxes with the last two selected
func createTestBoxes(t *testing.T) *BboxAnnotations {
	t.Helper()
	a, err := BboxFromBBsCats(
		[]types.BB{
			{X: 0, Y: 0, W: 10, H: 10},
			{X: 5, Y: 5, W: 10, H: 10},
			{X: 9, Y: 9, W: 10, H: 10},
		},
		[]int{0, 0, 0},
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	a.Select(1, true)
	a.Select(2, true)
	return a
}

func TestBboxFromBBsCatsMismatch(t *testing.T) {
	_, err := BboxFromBBsCats([]types.BB{{W: 1, H: 1}}, nil)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestBboxFromBBsCatsRejectsEmptyBox(t *testing.T) {
	for _, bb := range []types.BB{{X: 5, Y: 5}, {X: 1, Y: 1, W: 3}, {X: 1, Y: 1, H: 3}} {
		a, err := BboxFromBBsCats([]types.BB{{W: 2, H: 2}, bb}, []int{0, 0})
		if !errors.Is(err, types.ErrInvalidBB) {
			t.Errorf("Expected ErrInvalidBB for %v, got %v", bb, err)
		}
		if a != nil {
			t.Errorf("Expected no boxes for %v", bb)
		}
	}
}

func TestBboxResizeSelected(t *testing.T) {
	a := createTestBoxes(t)
	shape := types.NewShape(100, 100)

	a.ResizeSelected(-1, 1, shape, EdgeMax, SplitNone)

	bbs := a.BBs()
	if bbs[0] != (types.BB{X: 0, Y: 0, W: 10, H: 10}) {
		t.Errorf("Expected unselected box to stay, got %v", bbs[0])
	}
	if bbs[1] != types.BBFromPoints(types.Pt(5, 5), types.Pt(14, 16)) {
		t.Errorf("Expected [5, 5, 9, 11], got %v", bbs[1])
	}
	if bbs[2] != (types.BB{X: 9, Y: 9, W: 9, H: 11}) {
		t.Errorf("Expected [9, 9, 9, 11], got %v", bbs[2])
	}
}

func TestBboxResizeSelectedRejected(t *testing.T) {
	a := createTestBoxes(t)
	shape := types.NewShape(19, 19)

	a.ResizeSelected(1, 0, shape, EdgeMax, SplitNone)

	bbs := a.BBs()
	if bbs[1] != (types.BB{X: 5, Y: 5, W: 11, H: 10}) {
		t.Errorf("Expected box 1 to grow, got %v", bbs[1])
	}
	if bbs[2] != (types.BB{X: 9, Y: 9, W: 10, H: 10}) {
		t.Errorf("Expected box 2 at the image border to stay, got %v", bbs[2])
	}
}

func TestBboxSelectedFollowMovement(t *testing.T) {
	a := createTestBoxes(t)
	shape := types.NewShape(100, 100)

	if !a.SelectedFollowMovement(types.Pt(10, 10), types.Pt(13, 11), shape, SplitNone) {
		t.Fatal("Expected selected boxes to move")
	}
	bbs := a.BBs()
	if bbs[0] != (types.BB{X: 0, Y: 0, W: 10, H: 10}) {
		t.Errorf("Expected unselected box to stay, got %v", bbs[0])
	}
	if bbs[1] != (types.BB{X: 8, Y: 6, W: 10, H: 10}) || bbs[2] != (types.BB{X: 12, Y: 10, W: 10, H: 10}) {
		t.Errorf("Expected boxes to follow by (3, 1), got %v", bbs)
	}

	if a.SelectedFollowMovement(types.Pt(0, 0), types.Pt(90, 0), shape, SplitNone) {
		t.Error("Expected movement out of the image to be rejected")
	}
}

func TestBboxRemoveSelected(t *testing.T) {
	a := createTestBoxes(t)

	if n := a.RemoveSelected(); n != 2 {
		t.Errorf("Expected 2 removed boxes, got %d", n)
	}
	if a.Len() != 1 {
		t.Errorf("Expected 1 box left, got %d", a.Len())
	}
}

func TestBboxRemove(t *testing.T) {
	a := createTestBoxes(t)

	removed, ok := a.Remove(1)
	if !ok || removed.Geometry != (types.BB{X: 5, Y: 5, W: 10, H: 10}) || !removed.Selected {
		t.Errorf("Expected selected box [5, 5, 10, 10], got %v (ok=%v)", removed, ok)
	}
	if want := []types.BB{{X: 0, Y: 0, W: 10, H: 10}, {X: 9, Y: 9, W: 10, H: 10}}; !slices.Equal(a.BBs(), want) {
		t.Errorf("Expected %v, got %v", want, a.BBs())
	}
	if _, ok := a.Remove(2); ok {
		t.Error("Expected out of range index to be rejected")
	}
}

func TestBboxSelectedIndices(t *testing.T) {
	a := createTestBoxes(t)

	if got := slices.Collect(a.SelectedIndices()); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Expected [1 2], got %v", got)
	}
	if a.NumSelected() != 2 {
		t.Errorf("Expected 2 selected, got %d", a.NumSelected())
	}
	for i := range a.SelectedIndices() {
		if i != 1 {
			t.Errorf("Expected to stop after the first index, got %d", i)
		}
		break
	}
}

func TestBboxReshape(t *testing.T) {
	a := createTestBoxes(t)
	shape := types.NewShape(20, 20)

	if !a.Reshape(0, types.BB{X: 2, Y: 3, W: 4, H: 5}, shape) {
		t.Fatal("Expected reshape inside the image to succeed")
	}
	if bbs := a.BBs(); bbs[0] != (types.BB{X: 2, Y: 3, W: 4, H: 5}) {
		t.Errorf("Expected [2, 3, 4, 5], got %v", bbs[0])
	}
	if a.Reshape(0, types.BB{X: 10, Y: 10, W: 11, H: 1}, shape) || a.Reshape(5, types.BB{W: 1, H: 1}, shape) {
		t.Error("Expected reshape outside the image or of a missing box to fail")
	}
}

func TestBboxIndexAt(t *testing.T) {
	a := createTestBoxes(t)

	idx, ok := a.IndexAt(types.Pt(9, 9))
	if !ok || idx != 2 {
		t.Errorf("Expected most recent box 2, got %d (ok=%v)", idx, ok)
	}
	if _, ok := a.IndexAt(types.Pt(50, 50)); ok {
		t.Error("Expected no box at (50, 50)")
	}
}

func TestBboxSelectContained(t *testing.T) {
	a := createTestBoxes(t)
	a.DeselectAll()

	if n := a.SelectContained(types.BB{X: 0, Y: 0, W: 15, H: 15}); n != 2 {
		t.Errorf("Expected 2 contained boxes, got %d", n)
	}
	if mask := a.SelectedMask(); !mask[0] || !mask[1] || mask[2] {
		t.Errorf("Expected boxes 0 and 1 selected, got %v", mask)
	}
}

func TestBboxCloneIndependent(t *testing.T) {
	a := createTestBoxes(t)
	c := a.Clone()

	a.ResizeSelected(1, 1, types.NewShape(100, 100), EdgeMax, SplitNone)
	a.SetCatIdx(0, 3)

	if c.BBs()[1] != (types.BB{X: 5, Y: 5, W: 10, H: 10}) {
		t.Errorf("Expected clone to keep its box, got %v", c.BBs()[1])
	}
	if c.CatIdxs()[0] != 0 {
		t.Errorf("Expected clone to keep its category, got %d", c.CatIdxs()[0])
	}
}

func TestBboxFitInto(t *testing.T) {
	a := createTestBoxes(t)

	if dropped := a.FitInto(types.NewShape(8, 8)); dropped != 1 {
		t.Errorf("Expected 1 dropped box, got %d", dropped)
	}
	for _, bb := range a.BBs() {
		if !bb.IsContainedIn(types.NewShape(8, 8)) {
			t.Errorf("Expected %v to fit into 8x8", bb)
		}
	}
}

func TestClipboard(t *testing.T) {
	a := createTestBoxes(t)
	cb := CopySelected(a)
	if cb == nil || len(cb.BBs) != 2 {
		t.Fatalf("Expected 2 copied boxes, got %+v", cb)
	}

	target := NewBboxAnnotations()
	target.Add(types.BB{X: 50, Y: 50, W: 5, H: 5}, 0)
	target.Select(0, true)

	if n := cb.PasteInto(target, types.NewShape(16, 16), 1); n != 1 {
		t.Errorf("Expected only the fitting box to be pasted, got %d", n)
	}
	if mask := target.SelectedMask(); mask[0] || !mask[1] {
		t.Errorf("Expected only the pasted box selected, got %v", mask)
	}

	a.DeselectAll()
	if CopySelected(a) != nil {
		t.Error("Expected nil clipboard without selection")
	}
}
