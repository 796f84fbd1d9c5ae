package annotations

import (
	"testing"

	"github.com/menta2k/image-annotator/pkg/types"
)

func TestBrushStrokes(t *testing.T) {
	a := NewBrushAnnotations()

	if a.ExtendLast(types.Pt(1, 1)) {
		t.Error("Expected no stroke to extend")
	}
	a.StartStroke(types.Pt(2, 2), 0)
	a.ExtendLast(types.Pt(3, 4))
	if a.ExtendLast(types.Pt(3, 4)) {
		t.Error("Expected repeated point to be skipped")
	}
	a.ExtendLast(types.Pt(6, 3))

	strokes := a.Strokes()
	if len(strokes) != 1 || len(strokes[0].Points) != 3 {
		t.Fatalf("Expected one stroke with 3 points, got %v", strokes)
	}
	bb, ok := strokes[0].EnclosingBB()
	if !ok || bb != (types.BB{X: 2, Y: 2, W: 4, H: 2}) {
		t.Errorf("Expected [2, 2, 4, 2], got %v", bb)
	}
	if idx, ok := a.IndexAt(types.Pt(4, 3)); !ok || idx != 0 {
		t.Errorf("Expected stroke 0 at (4, 3), got %d (ok=%v)", idx, ok)
	}
}

func TestBrushFollowMovement(t *testing.T) {
	shape := types.NewShape(10, 10)
	a, err := BrushFromStrokesCats([]Stroke{{Points: []types.Point{types.Pt(1, 1), types.Pt(5, 5)}}}, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	a.SelectAll()

	if !a.SelectedFollowMovement(types.Pt(0, 0), types.Pt(2, 1), shape) {
		t.Fatal("Expected stroke to move")
	}
	if got := a.Strokes()[0].Points; got[0] != types.Pt(3, 2) || got[1] != types.Pt(7, 6) {
		t.Errorf("Expected points moved by (2, 1), got %v", got)
	}
	if a.SelectedFollowMovement(types.Pt(0, 0), types.Pt(5, 0), shape) {
		t.Error("Expected movement out of the image to be rejected")
	}
}

func TestBrushCloneIndependent(t *testing.T) {
	a := NewBrushAnnotations()
	a.StartStroke(types.Pt(1, 1), 0)
	c := a.Clone()

	a.ExtendLast(types.Pt(2, 2))
	if len(c.Strokes()[0].Points) != 1 {
		t.Errorf("Expected clone to keep 1 point, got %v", c.Strokes()[0].Points)
	}
}
