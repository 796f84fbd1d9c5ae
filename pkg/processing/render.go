package processing

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/menta2k/image-annotator/pkg/colors"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/view"
)

const (
	// DefaultFillAlpha is the fill opacity of unselected boxes
	DefaultFillAlpha = 90
	// SelectedFillAlpha is the fill opacity of selected boxes
	SelectedFillAlpha = 170

	loadingTile = 16
)

// BoxOverlay is a box to draw in view coordinates
type BoxOverlay struct {
	Corners  view.ViewCorners
	Color    colors.RGB
	Selected bool
}

// StrokeOverlay is a polyline to draw in view coordinates
type StrokeOverlay struct {
	Points   []types.Point
	Color    colors.RGB
	Selected bool
}

// RenderView crops the zoom box out of orig and scales it into the window
func RenderView(orig *image.NRGBA, zoomBox *types.BB, shapeWin types.Shape) *image.NRGBA {
	var src image.Image = orig
	if zoomBox != nil {
		src = imaging.Crop(orig, image.Rect(int(zoomBox.X), int(zoomBox.Y), int(zoomBox.XMax()), int(zoomBox.YMax())))
	}
	scaled := view.ViewShape(types.ShapeFromImage(orig), shapeWin, zoomBox)
	if scaled.IsEmpty() {
		return imaging.Clone(src)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, int(scaled.W), int(scaled.H)))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// LoadingImage is a checkerboard placeholder shown while an image loads
func LoadingImage(shape types.Shape) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(shape.W), int(shape.H)))
	light := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	for y := 0; y < int(shape.H); y++ {
		for x := 0; x < int(shape.W); x++ {
			c := dark
			if (x/loadingTile+y/loadingTile)%2 == 0 {
				c = light
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// DrawBoxes fills and outlines boxes in place. Edges outside the view are
// not outlined.
func DrawBoxes(img *image.NRGBA, boxes []BoxOverlay) {
	shape := types.ShapeFromImage(img)
	for _, b := range boxes {
		if b.Corners.IsEmpty() {
			continue
		}
		c := color.NRGBA{R: b.Color[0], G: b.Color[1], B: b.Color[2], A: 255}
		alpha := uint8(DefaultFillAlpha)
		stroke := 1
		if b.Selected {
			alpha = SelectedFillAlpha
			stroke = 2
		}

		for p := range view.BoxViewPoints(b.Corners, shape) {
			blend(img, int(p.X), int(p.Y), c, alpha)
		}

		xMin, yMin, xMax, yMax := b.Corners.Rect(shape)
		x0, y0, x1, y1 := int(xMin), int(yMin), int(xMax), int(yMax)
		for s := 0; s < stroke; s++ {
			if b.Corners.YMin.Valid {
				drawHLine(img, y0+s, x0, x1, c)
			}
			if b.Corners.YMax.Valid {
				drawHLine(img, y1-1-s, x0, x1, c)
			}
			if b.Corners.XMin.Valid {
				drawVLine(img, x0+s, y0, y1, c)
			}
			if b.Corners.XMax.Valid {
				drawVLine(img, x1-1-s, y0, y1, c)
			}
		}
	}
}

// DrawStrokes draws polylines in place
func DrawStrokes(img *image.NRGBA, strokes []StrokeOverlay) {
	for _, s := range strokes {
		c := color.NRGBA{R: s.Color[0], G: s.Color[1], B: s.Color[2], A: 255}
		radius := 0
		if s.Selected {
			radius = 1
		}
		if len(s.Points) == 1 {
			drawDot(img, int(s.Points[0].X), int(s.Points[0].Y), radius, c)
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			drawLine(img, int(a.X), int(a.Y), int(b.X), int(b.Y), radius, c)
		}
	}
}

func blend(img *image.NRGBA, x, y int, c color.NRGBA, alpha uint8) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	a := uint32(alpha)
	mix := func(orig, col uint8) uint8 {
		return uint8((uint32(orig)*(255-a) + uint32(col)*a) / 255)
	}
	img.Pix[i+0] = mix(img.Pix[i+0], c.R)
	img.Pix[i+1] = mix(img.Pix[i+1], c.G)
	img.Pix[i+2] = mix(img.Pix[i+2], c.B)
}

func drawDot(img *image.NRGBA, x, y, radius int, c color.NRGBA) {
	for dy := -radius; dy <= radius; dy++ {
		drawHLine(img, y+dy, x-radius, x+radius+1, c)
	}
}

// drawLine is Bresenham's line algorithm
func drawLine(img *image.NRGBA, x0, y0, x1, y1, radius int, c color.NRGBA) {
	dx, sx := abs(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		drawDot(img, x0, y0, radius, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	if x1 <= x0 {
		return
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	if y1 <= y0 {
		return
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
