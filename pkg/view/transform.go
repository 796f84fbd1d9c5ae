// Package view maps between window (view) coordinates and original image
// coordinates under an optional zoom box.
//
// The view is the zoom box (or the whole image) scaled uniformly so that it
// fits the window. Both directions share one rounding helper so that a
// point translated forth and back lands on the pixel it started from.
package view

import (
	"iter"
	"math"

	"github.com/menta2k/image-annotator/pkg/types"
)

// ShapeUnscaled is the part of the original image that is shown
func ShapeUnscaled(zoomBox *types.BB, shapeOrig types.Shape) types.Shape {
	if zoomBox != nil {
		return zoomBox.Shape()
	}
	return shapeOrig
}

// ShapeScaled fits unscaled into the window keeping the aspect ratio
func ShapeScaled(unscaled, shapeWin types.Shape) types.Shape {
	if unscaled.IsEmpty() || shapeWin.IsEmpty() {
		return types.Shape{}
	}
	ratio := math.Max(
		float64(unscaled.W)/float64(shapeWin.W),
		float64(unscaled.H)/float64(shapeWin.H),
	)
	return types.Shape{
		W: uint32(float64(unscaled.W) / ratio),
		H: uint32(float64(unscaled.H) / ratio),
	}
}

// ViewShape is the size of the view image for the current zoom
func ViewShape(shapeOrig, shapeWin types.Shape, zoomBox *types.BB) types.Shape {
	return ShapeScaled(ShapeUnscaled(zoomBox, shapeOrig), shapeWin)
}

type coordFn func(x, nTransformed, nOrig, off uint32) uint32

func viewToOrigCoord(x, nTransformed, nOrig, off uint32) uint32 {
	if nTransformed == 0 {
		return off
	}
	tmp := float64(x) * float64(nOrig) / float64(nTransformed)
	if nTransformed > nOrig {
		tmp = math.Ceil(tmp)
	} else {
		tmp = math.Floor(tmp)
	}
	return off + uint32(tmp)
}

func origToViewCoord(x, nTransformed, nOrig, off uint32) uint32 {
	if nOrig == 0 || x < off {
		return 0
	}
	tmp := float64(x-off) * float64(nTransformed) / float64(nOrig)
	if nTransformed > nOrig {
		tmp = math.Floor(tmp)
	} else {
		tmp = math.Ceil(tmp)
	}
	return uint32(tmp)
}

func posTransform(pos types.Point, shapeOrig, shapeWin types.Shape, zoomBox *types.BB, f coordFn) types.Point {
	unscaled := ShapeUnscaled(zoomBox, shapeOrig)
	scaled := ShapeScaled(unscaled, shapeWin)
	var offX, offY uint32
	if zoomBox != nil {
		offX, offY = zoomBox.X, zoomBox.Y
	}
	return types.Point{
		X: f(pos.X, scaled.W, unscaled.W, offX),
		Y: f(pos.Y, scaled.H, unscaled.H, offY),
	}
}

// ViewPosToOrigPos converts a view position into original image coordinates.
// The result is not checked against the image bounds.
func ViewPosToOrigPos(viewPos types.Point, shapeOrig, shapeWin types.Shape, zoomBox *types.BB) types.Point {
	return posTransform(viewPos, shapeOrig, shapeWin, zoomBox, viewToOrigCoord)
}

// OrigPosToViewPos converts an original position into view coordinates.
// Positions outside the zoom box have no view position.
func OrigPosToViewPos(origPos types.Point, shapeOrig, shapeWin types.Shape, zoomBox *types.BB) (types.Point, bool) {
	if zoomBox != nil && !zoomBox.Contains(origPos) {
		return types.Point{}, false
	}
	return posTransform(origPos, shapeOrig, shapeWin, zoomBox, origToViewCoord), true
}

// MousePosToOrigPos converts an optional mouse position and drops results
// that fall outside the original image.
func MousePosToOrigPos(mousePos *types.Point, shapeOrig, shapeWin types.Shape, zoomBox *types.BB) (types.Point, bool) {
	if mousePos == nil {
		return types.Point{}, false
	}
	p := ViewPosToOrigPos(*mousePos, shapeOrig, shapeWin, zoomBox)
	if p.X >= shapeOrig.W || p.Y >= shapeOrig.H {
		return types.Point{}, false
	}
	return p, true
}

// OrigCoordToViewCoord converts a single coordinate. If the visible interval
// [lo, hi) is given, coordinates outside of it are rejected.
func OrigCoordToViewCoord(coord, nCoords, nPixelsScaled uint32, visible *[2]uint32) (uint32, bool) {
	off := uint32(0)
	if visible != nil {
		lo, hi := visible[0], visible[1]
		if coord < lo || hi <= coord {
			return 0, false
		}
		off = lo
	}
	return origToViewCoord(coord, nPixelsScaled, nCoords, off), true
}

// Coord is a view coordinate that may be out of view
type Coord struct {
	Value uint32
	Valid bool
}

// ViewCorners are the edges of an original box in view coordinates.
// Edges outside the zoom box are invalid.
type ViewCorners struct {
	XMin, YMin, XMax, YMax Coord
}

// IsEmpty reports whether no edge of the box is visible
func (vc ViewCorners) IsEmpty() bool {
	return !vc.XMin.Valid && !vc.YMin.Valid && !vc.XMax.Valid && !vc.YMax.Valid
}

// Rect returns the visible part of the box in view coordinates. Missing
// edges are replaced by the view borders.
func (vc ViewCorners) Rect(viewShape types.Shape) (xMin, yMin, xMax, yMax uint32) {
	pick := func(c Coord, fallback uint32) uint32 {
		if c.Valid {
			return c.Value
		}
		return fallback
	}
	return pick(vc.XMin, 0), pick(vc.YMin, 0), pick(vc.XMax, viewShape.W), pick(vc.YMax, viewShape.H)
}

// ToViewCorners computes where the edges of bb appear in the view
func ToViewCorners(bb types.BB, shapeOrig, shapeWin types.Shape, zoomBox *types.BB) ViewCorners {
	unscaled := ShapeUnscaled(zoomBox, shapeOrig)
	scaled := ShapeScaled(unscaled, shapeWin)

	var visX, visY *[2]uint32
	if zoomBox != nil {
		visX = &[2]uint32{zoomBox.X, zoomBox.XMax()}
		visY = &[2]uint32{zoomBox.Y, zoomBox.YMax()}
	}
	conv := func(coord, n, nScaled uint32, vis *[2]uint32) Coord {
		v, ok := OrigCoordToViewCoord(coord, n, nScaled, vis)
		return Coord{Value: v, Valid: ok}
	}
	return ViewCorners{
		XMin: conv(bb.X, unscaled.W, scaled.W, visX),
		YMin: conv(bb.Y, unscaled.H, scaled.H, visY),
		XMax: conv(bb.XMax(), unscaled.W, scaled.W, visX),
		YMax: conv(bb.YMax(), unscaled.H, scaled.H, visY),
	}
}

// ToViewBB returns the view box of bb if all of its edges are visible
func ToViewBB(bb types.BB, shapeOrig, shapeWin types.Shape, zoomBox *types.BB) (types.BB, bool) {
	vc := ToViewCorners(bb, shapeOrig, shapeWin, zoomBox)
	if !vc.XMin.Valid || !vc.YMin.Valid || !vc.XMax.Valid || !vc.YMax.Valid {
		return types.BB{}, false
	}
	return types.BBFromPoints(
		types.Pt(vc.XMin.Value, vc.YMin.Value),
		types.Pt(vc.XMax.Value, vc.YMax.Value),
	), true
}

// BoxViewPoints iterates all view pixels covered by the visible part of a box
func BoxViewPoints(vc ViewCorners, viewShape types.Shape) iter.Seq[types.Point] {
	return func(yield func(types.Point) bool) {
		if vc.IsEmpty() {
			return
		}
		xMin, yMin, xMax, yMax := vc.Rect(viewShape)
		for y := yMin; y < yMax; y++ {
			for x := xMin; x < xMax; x++ {
				if !yield(types.Pt(x, y)) {
					return
				}
			}
		}
	}
}
