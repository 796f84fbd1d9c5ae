package view

import (
	"github.com/menta2k/image-annotator/pkg/types"
)

const (
	// DefaultZoomStep is the relative size change per wheel notch
	DefaultZoomStep = 0.1
	// MinCrop is the smallest zoom box edge in view pixels a drag can create
	MinCrop = 10
)

// ZoomBoxOnWheel zooms in for positive and out for negative deltas
func ZoomBoxOnWheel(zoomBox *types.BB, shapeOrig types.Shape, delta float64) *types.BB {
	return ZoomBoxOnWheelStep(zoomBox, shapeOrig, delta, DefaultZoomStep)
}

// ZoomBoxOnWheelStep is ZoomBoxOnWheel with a configurable step. The delta
// is clipped to [-1, 1] and the result always lies inside the image.
func ZoomBoxOnWheelStep(zoomBox *types.BB, shapeOrig types.Shape, delta, step float64) *types.BB {
	delta = min(max(delta, -1), 1)
	factor := 1 - delta*step

	current := types.BB{W: shapeOrig.W, H: shapeOrig.H}
	if zoomBox != nil {
		current = *zoomBox
	}
	zb := current.CenterScale(factor, shapeOrig)
	if zb == current && factor > 1 {
		// rounding swallows the growth of tiny boxes
		zb = types.NewBBFitToImage(int(current.X)-1, int(current.Y)-1, int(current.W)+2, int(current.H)+2, shapeOrig)
	}
	return &zb
}

// ZoomBoxFromViewDrag converts a drag rectangle in view coordinates into a
// zoom box. Drags no larger than minCrop view pixels are ignored.
func ZoomBoxFromViewDrag(start, end types.Point, shapeOrig, shapeWin types.Shape, zoomBox *types.BB, minCrop uint32) (*types.BB, bool) {
	viewBB := types.BBFromPoints(start, end)
	if viewBB.W <= minCrop || viewBB.H <= minCrop {
		return nil, false
	}
	p1, ok1 := MousePosToOrigPos(&start, shapeOrig, shapeWin, zoomBox)
	p2, ok2 := MousePosToOrigPos(&end, shapeOrig, shapeWin, zoomBox)
	if !ok1 || !ok2 {
		return nil, false
	}
	zb := types.BBFromPoints(p1, p2)
	if zb.W <= 1 || zb.H <= 1 || !zb.IsContainedIn(shapeOrig) {
		return nil, false
	}
	return &zb, true
}

// PanZoomBox moves the zoom box against a drag from -> to in view
// coordinates, so that the content follows the mouse. Moves that would
// leave the image keep the box where it is.
func PanZoomBox(zoomBox *types.BB, from, to types.Point, shapeOrig, shapeWin types.Shape) *types.BB {
	if zoomBox == nil {
		return nil
	}
	fromOrig := ViewPosToOrigPos(from, shapeOrig, shapeWin, zoomBox)
	toOrig := ViewPosToOrigPos(to, shapeOrig, shapeWin, zoomBox)
	moved, ok := zoomBox.FollowMovement(toOrig, fromOrig, shapeOrig, types.Deny)
	if !ok {
		zb := *zoomBox
		return &zb
	}
	return &moved
}
