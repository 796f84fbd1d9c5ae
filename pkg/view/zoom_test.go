package view

import (
	"testing"

	"github.com/menta2k/image-annotator/pkg/types"
)

func TestZoomBoxOnWheel(t *testing.T) {
	shape := types.NewShape(200, 100)

	zb := ZoomBoxOnWheel(nil, shape, 1)
	if zb == nil {
		t.Fatal("Expected a zoom box")
	}
	if *zb != (types.BB{X: 10, Y: 5, W: 180, H: 90}) {
		t.Errorf("Expected [10, 5, 180, 90], got %v", *zb)
	}

	zb = ZoomBoxOnWheel(nil, shape, -1)
	if *zb != (types.BB{X: 0, Y: 0, W: 200, H: 100}) {
		t.Errorf("Expected zooming out to stay at the image, got %v", *zb)
	}

	clipped := ZoomBoxOnWheel(nil, shape, 25)
	if *clipped != (types.BB{X: 10, Y: 5, W: 180, H: 90}) {
		t.Errorf("Expected delta to be clipped to 1, got %v", *clipped)
	}
}

func TestZoomBoxOnWheelRepeated(t *testing.T) {
	shape := types.NewShape(200, 100)
	var zb *types.BB
	for i := 0; i < 50; i++ {
		zb = ZoomBoxOnWheel(zb, shape, 1)
		if !zb.IsContainedIn(shape) {
			t.Fatalf("Expected zoom box %v to stay inside the image", *zb)
		}
	}
	for i := 0; i < 200; i++ {
		zb = ZoomBoxOnWheel(zb, shape, -1)
		if !zb.IsContainedIn(shape) {
			t.Fatalf("Expected zoom box %v to stay inside the image", *zb)
		}
	}
	if *zb != (types.BB{W: 200, H: 100}) {
		t.Errorf("Expected zooming out to recover the whole image, got %v", *zb)
	}
}

func TestZoomBoxFromViewDrag(t *testing.T) {
	shapeOrig := types.NewShape(100, 100)
	shapeWin := types.NewShape(100, 100)

	zb, ok := ZoomBoxFromViewDrag(types.Pt(60, 70), types.Pt(20, 30), shapeOrig, shapeWin, nil, MinCrop)
	if !ok {
		t.Fatal("Expected a zoom box from the drag")
	}
	if *zb != (types.BB{X: 20, Y: 30, W: 40, H: 40}) {
		t.Errorf("Expected [20, 30, 40, 40], got %v", *zb)
	}

	if _, ok := ZoomBoxFromViewDrag(types.Pt(20, 20), types.Pt(25, 60), shapeOrig, shapeWin, nil, MinCrop); ok {
		t.Error("Expected narrow drags to be ignored")
	}
}

func TestPanZoomBox(t *testing.T) {
	shapeOrig := types.NewShape(100, 100)
	shapeWin := types.NewShape(50, 50)
	zb := types.BB{X: 20, Y: 20, W: 50, H: 50}

	moved := PanZoomBox(&zb, types.Pt(10, 10), types.Pt(5, 10), shapeOrig, shapeWin)
	if *moved != (types.BB{X: 25, Y: 20, W: 50, H: 50}) {
		t.Errorf("Expected [25, 20, 50, 50], got %v", *moved)
	}

	moved = PanZoomBox(&zb, types.Pt(10, 10), types.Pt(40, 10), shapeOrig, shapeWin)
	if *moved != zb {
		t.Errorf("Expected pan beyond the image to keep %v, got %v", zb, *moved)
	}

	if PanZoomBox(nil, types.Pt(0, 0), types.Pt(1, 1), shapeOrig, shapeWin) != nil {
		t.Error("Expected no zoom box when not zoomed")
	}
}
