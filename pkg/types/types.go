// Package types holds the geometry primitives shared by the coordinate
// transform, the annotation stores and the rendering layer.
//
// All coordinates are unsigned pixel positions. Boxes are half-open: a box
// covers x in [X, X+W) and y in [Y, Y+H).
package types

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBB is returned when a bounding box cannot be parsed or built
var ErrInvalidBB = errors.New("invalid bounding box")

// Shape is the width and height of an image, a view or a window
type Shape struct {
	W uint32 `json:"w"`
	H uint32 `json:"h"`
}

// NewShape creates a new Shape
func NewShape(w, h uint32) Shape {
	return Shape{W: w, H: h}
}

// ShapeFromImage returns the shape of an image's bounds
func ShapeFromImage(img image.Image) Shape {
	if img == nil {
		return Shape{}
	}
	b := img.Bounds()
	return Shape{W: uint32(b.Dx()), H: uint32(b.Dy())}
}

// IsEmpty reports whether one of the dimensions is zero
func (s Shape) IsEmpty() bool {
	return s.W == 0 || s.H == 0
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Point is a pixel position
type Point struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y uint32) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// OutOfBoundsMode decides what happens when a moved box leaves the image
type OutOfBoundsMode struct {
	resize   bool
	minShape Shape
}

// Deny rejects any movement that would leave the image
var Deny = OutOfBoundsMode{}

// ResizeTo clips a moved box to the image as long as it keeps at least minShape
func ResizeTo(minShape Shape) OutOfBoundsMode {
	return OutOfBoundsMode{resize: true, minShape: minShape}
}

// BB is an axis-aligned bounding box
type BB struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
	W uint32 `json:"w"`
	H uint32 `json:"h"`
}

// BBFromArr builds a box from [x, y, w, h]
func BBFromArr(a [4]uint32) BB {
	return BB{X: a[0], Y: a[1], W: a[2], H: a[3]}
}

// BBFromPoints normalizes two arbitrary corners into a box. An axis
// without extent gets size 1, so the result is never degenerate.
func BBFromPoints(p1, p2 Point) BB {
	xMin, xMax := min(p1.X, p2.X), max(p1.X, p2.X)
	yMin, yMax := min(p1.Y, p2.Y), max(p1.Y, p2.Y)
	return BB{
		X: xMin,
		Y: yMin,
		W: max(xMax-xMin, 1),
		H: max(yMax-yMin, 1),
	}
}

// NewBBChecked builds a box and rejects it unless it has a positive size
// and lies completely inside shape.
func NewBBChecked(x, y, w, h int, shape Shape) (BB, bool) {
	if x < 0 || y < 0 || w < 1 || h < 1 {
		return BB{}, false
	}
	if int64(x)+int64(w) > int64(shape.W) || int64(y)+int64(h) > int64(shape.H) {
		return BB{}, false
	}
	return BB{X: uint32(x), Y: uint32(y), W: uint32(w), H: uint32(h)}, true
}

// NewBBFitToImage builds a box and clips it into shape
func NewBBFitToImage(x, y, w, h int, shape Shape) BB {
	clip := func(v, sizeBx, sizeIm int) (int, int) {
		if v < 0 {
			sizeBx += v
			v = 0
		}
		if sizeIm > 0 && v >= sizeIm {
			v = sizeIm - 1
		}
		sizeBx = min(sizeBx, sizeIm-v)
		return v, max(sizeBx, 1)
	}
	x, w = clip(x, w, int(shape.W))
	y, h = clip(y, h, int(shape.H))
	return BB{X: uint32(x), Y: uint32(y), W: uint32(w), H: uint32(h)}
}

// EnclosingBB computes the smallest box containing all points
func EnclosingBB(points []Point) (BB, error) {
	if len(points) == 0 {
		return BB{}, fmt.Errorf("need points to compute enclosing bounding box: %w", ErrInvalidBB)
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return BBFromPoints(lo, hi), nil
}

// ParseBB parses the text form "[x, y, w, h]"
func ParseBB(s string) (BB, error) {
	t := strings.TrimSpace(s)
	if len(t) < 2 || t[0] != '[' || t[len(t)-1] != ']' {
		return BB{}, fmt.Errorf("could not parse %q into a bounding box: %w", s, ErrInvalidBB)
	}
	fields := strings.Split(t[1:len(t)-1], ",")
	if len(fields) != 4 {
		return BB{}, fmt.Errorf("could not parse %q into a bounding box, expected 4 fields, got %d: %w", s, len(fields), ErrInvalidBB)
	}
	var vals [4]uint32
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return BB{}, fmt.Errorf("could not parse %q into a bounding box: %w", s, errors.Join(ErrInvalidBB, err))
		}
		vals[i] = uint32(v)
	}
	return BBFromArr(vals), nil
}

// String returns the text form "[x, y, w, h]"
func (b BB) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d]", b.X, b.Y, b.W, b.H)
}

// Shape returns the box's width and height
func (b BB) Shape() Shape {
	return Shape{W: b.W, H: b.H}
}

// Min returns the top-left corner
func (b BB) Min() Point {
	return Point{X: b.X, Y: b.Y}
}

// Max returns the exclusive bottom-right corner
func (b BB) Max() Point {
	return Point{X: b.X + b.W, Y: b.Y + b.H}
}

// XMax returns the exclusive right edge
func (b BB) XMax() uint32 {
	return b.X + b.W
}

// YMax returns the exclusive bottom edge
func (b BB) YMax() uint32 {
	return b.Y + b.H
}

// MinMax returns the edge interval along axis 0 (x) or 1 (y)
func (b BB) MinMax(axis int) (uint32, uint32) {
	if axis == 0 {
		return b.X, b.XMax()
	}
	return b.Y, b.YMax()
}

// Center returns the integer center
func (b BB) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Corner returns corner idx in the order
//
//	0   3
//	v   ʌ
//	1 > 2
//
// Indices outside 0..3 wrap around.
func (b BB) Corner(idx int) Point {
	switch ((idx % 4) + 4) % 4 {
	case 0:
		return Point{X: b.X, Y: b.Y}
	case 1:
		return Point{X: b.X, Y: b.Y + b.H}
	case 2:
		return Point{X: b.X + b.W, Y: b.Y + b.H}
	default:
		return Point{X: b.X + b.W, Y: b.Y}
	}
}

// OppositeCorner returns the corner diagonal to idx
func (b BB) OppositeCorner(idx int) Point {
	return b.Corner(idx + 2)
}

// Corners returns all four corners in Corner order
func (b BB) Corners() [4]Point {
	return [4]Point{b.Corner(0), b.Corner(1), b.Corner(2), b.Corner(3)}
}

// Contains reports whether p lies inside the half-open box
func (b BB) Contains(p Point) bool {
	return b.X <= p.X && p.X < b.X+b.W && b.Y <= p.Y && p.Y < b.Y+b.H
}

// ContainsBB reports whether other lies completely inside b
func (b BB) ContainsBB(other BB) bool {
	return b.X <= other.X && b.Y <= other.Y && other.XMax() <= b.XMax() && other.YMax() <= b.YMax()
}

// IsContainedIn reports whether the box fits inside an image of the given shape
func (b BB) IsContainedIn(shape Shape) bool {
	return b.W >= 1 && b.H >= 1 && b.XMax() <= shape.W && b.YMax() <= shape.H
}

// Translate moves the box. The result is rejected if it leaves shape.
func (b BB) Translate(dx, dy int, shape Shape) (BB, bool) {
	return NewBBChecked(int(b.X)+dx, int(b.Y)+dy, int(b.W), int(b.H), shape)
}

// FollowMovement translates the box by the vector from -> to
func (b BB) FollowMovement(from, to Point, shape Shape, mode OutOfBoundsMode) (BB, bool) {
	dx := int(to.X) - int(from.X)
	dy := int(to.Y) - int(from.Y)
	if !mode.resize {
		return b.Translate(dx, dy, shape)
	}
	x, y := int(b.X)+dx, int(b.Y)+dy
	if x >= int(shape.W) || y >= int(shape.H) || x+int(b.W) <= 0 || y+int(b.H) <= 0 {
		return BB{}, false
	}
	moved := NewBBFitToImage(x, y, int(b.W), int(b.H), shape)
	if moved.W < mode.minShape.W || moved.H < mode.minShape.H {
		return BB{}, false
	}
	return moved, true
}

// ShiftMax moves the bottom-right edges, changing the size only
func (b BB) ShiftMax(dx, dy int, shape Shape) (BB, bool) {
	return NewBBChecked(int(b.X), int(b.Y), int(b.W)+dx, int(b.H)+dy, shape)
}

// ShiftMin moves the top-left edges while the bottom-right edges stay put
func (b BB) ShiftMin(dx, dy int, shape Shape) (BB, bool) {
	return NewBBChecked(int(b.X)+dx, int(b.Y)+dy, int(b.W)-dx, int(b.H)-dy, shape)
}

// CenterScale scales the box about its center and clips the result into
// shape. Unlike the shift operations it never rejects.
func (b BB) CenterScale(factor float64, shape Shape) BB {
	x, y := float64(b.X), float64(b.Y)
	w, h := float64(b.W), float64(b.H)
	cx, cy := w*0.5+x, h*0.5+y
	xTL, yTL := cx+factor*(x-cx), cy+factor*(y-cy)
	xBR, yBR := cx+factor*(x+w-cx), cy+factor*(y+h-cy)
	return NewBBFitToImage(
		int(math.Round(xTL)),
		int(math.Round(yTL)),
		int(math.Round(xBR-xTL)),
		int(math.Round(yBR-yTL)),
		shape,
	)
}

// HasOverlap is true if a corner of one box lies inside the other.
// Crossing boxes without corner containment are not detected.
func (b BB) HasOverlap(other BB) bool {
	for _, c := range b.Corners() {
		if other.Contains(c) {
			return true
		}
	}
	for _, c := range other.Corners() {
		if b.Contains(c) {
			return true
		}
	}
	return false
}

// MaxCornerSquareDist finds the corner pair (own corner, other corner)
// with the largest squared distance. On ties the later pair wins.
func (b BB) MaxCornerSquareDist(other BB) (int, int, int64) {
	bestS, bestO := 0, 0
	bestD := int64(-1)
	for cs := 0; cs < 4; cs++ {
		pc := b.Corner(cs)
		co, dco := 0, int64(-1)
		for i := 0; i < 4; i++ {
			po := other.Corner(i)
			dx := int64(po.X) - int64(pc.X)
			dy := int64(po.Y) - int64(pc.Y)
			if d := dx*dx + dy*dy; d >= dco {
				co, dco = i, d
			}
		}
		if dco >= bestD {
			bestS, bestO, bestD = cs, co, dco
		}
	}
	return bestS, bestO, bestD
}

// ProjectOnBB clamps p into the box
func ProjectOnBB(p Point, bb BB) Point {
	return Point{
		X: min(max(p.X, bb.X), bb.X+bb.W-1),
		Y: min(max(p.Y, bb.Y), bb.Y+bb.H-1),
	}
}
