package world

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/colors"
	"github.com/menta2k/image-annotator/pkg/processing"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/view"
)

// World is the live annotation state. The view image is derived from the
// original image, the zoom box and the window shape and is re-rendered
// whenever one of them changes.
type World struct {
	data            DataRaw
	zoomBox         *types.BB
	shapeWin        types.Shape
	imView          *image.NRGBA
	showAnnotations bool
	defaultLabel    string
	logger          *logrus.Logger
}

// New creates a world and renders its view
func New(data DataRaw, zoomBox *types.BB, shapeWin types.Shape, logger *logrus.Logger) *World {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	w := &World{
		data:            data,
		shapeWin:        shapeWin,
		showAnnotations: true,
		defaultLabel:    annotations.DefaultLabel,
		logger:          logger,
	}
	if zoomBox != nil && zoomBox.IsContainedIn(data.Shape()) {
		zb := *zoomBox
		w.zoomBox = &zb
	}
	w.Redraw()
	return w
}

// FromImage creates an unzoomed world for an image
func FromImage(im *image.NRGBA, meta MetaData, tools map[string]annotations.ToolData, shapeWin types.Shape, logger *logrus.Logger) *World {
	return New(NewDataRaw(im, meta, tools), nil, shapeWin, logger)
}

// NewLoading creates a world that shows a placeholder of the given shape
func NewLoading(shape, shapeWin types.Shape, tools map[string]annotations.ToolData, logger *logrus.Logger) *World {
	return New(NewDataRaw(processing.LoadingImage(shape), MetaData{}, tools), nil, shapeWin, logger)
}

// SetDefaultLabel sets the label of the first category of stores created later
func (w *World) SetDefaultLabel(label string) {
	w.defaultLabel = label
}

// DefaultLabel returns the label used for new stores
func (w *World) DefaultLabel() string {
	return w.defaultLabel
}

// Data returns the raw data
func (w *World) Data() *DataRaw {
	return &w.data
}

// SetData replaces the raw data, e.g. after undo. A zoom box that does not
// fit the new image is dropped.
func (w *World) SetData(d DataRaw) {
	w.data = d
	if w.zoomBox != nil && !w.zoomBox.IsContainedIn(d.Shape()) {
		w.zoomBox = nil
	}
	w.Redraw()
}

// CurrentFilePath returns the path of the loaded image, empty if none
func (w *World) CurrentFilePath() string {
	return w.data.Meta.FilePath
}

// ShapeOrig returns the shape of the original image
func (w *World) ShapeOrig() types.Shape {
	return w.data.Shape()
}

// ShapeWin returns the window shape
func (w *World) ShapeWin() types.Shape {
	return w.shapeWin
}

// SetShapeWin resizes the window and re-renders the view
func (w *World) SetShapeWin(shape types.Shape) {
	if shape == w.shapeWin {
		return
	}
	w.shapeWin = shape
	w.Redraw()
}

// ZoomBox returns a copy of the zoom box or nil if not zoomed
func (w *World) ZoomBox() *types.BB {
	if w.zoomBox == nil {
		return nil
	}
	zb := *w.zoomBox
	return &zb
}

// SetZoomBox sets or clears the zoom box. Boxes of at most one pixel in
// either direction or boxes outside the image are ignored.
func (w *World) SetZoomBox(zoomBox *types.BB) bool {
	if zoomBox == nil {
		if w.zoomBox == nil {
			return false
		}
		w.zoomBox = nil
		w.Redraw()
		return true
	}
	if zoomBox.W <= 1 || zoomBox.H <= 1 || !zoomBox.IsContainedIn(w.ShapeOrig()) {
		w.logger.WithField("zoom_box", zoomBox.String()).Debug("ignoring zoom box")
		return false
	}
	zb := *zoomBox
	w.zoomBox = &zb
	w.Redraw()
	return true
}

// SetAnnotationsVisible toggles drawing of annotations onto the view
func (w *World) SetAnnotationsVisible(visible bool) {
	if visible == w.showAnnotations {
		return
	}
	w.showAnnotations = visible
	w.Redraw()
}

// AnnotationsVisible reports whether annotations are drawn
func (w *World) AnnotationsVisible() bool {
	return w.showAnnotations
}

// ViewImage returns the rendered view
func (w *World) ViewImage() *image.NRGBA {
	return w.imView
}

// ViewShape returns the shape of the rendered view
func (w *World) ViewShape() types.Shape {
	return types.ShapeFromImage(w.imView)
}

// ViewToOrig converts a view position into original coordinates inside the image
func (w *World) ViewToOrig(viewPos *types.Point) (types.Point, bool) {
	return view.MousePosToOrigPos(viewPos, w.ShapeOrig(), w.shapeWin, w.zoomBox)
}

// ViewToOrigClamped converts a view position into original coordinates and
// pins positions outside the image to its border
func (w *World) ViewToOrigClamped(viewPos *types.Point) (types.Point, bool) {
	shape := w.ShapeOrig()
	if viewPos == nil || shape.IsEmpty() {
		return types.Point{}, false
	}
	p := view.ViewPosToOrigPos(*viewPos, shape, w.shapeWin, w.zoomBox)
	return types.ProjectOnBB(p, types.BB{W: shape.W, H: shape.H}), true
}

// OrigToView converts an original position into view coordinates
func (w *World) OrigToView(origPos types.Point) (types.Point, bool) {
	return view.OrigPosToViewPos(origPos, w.ShapeOrig(), w.shapeWin, w.zoomBox)
}

// PixelAt returns the original position and color under a view position
func (w *World) PixelAt(viewPos types.Point) (types.Point, colors.RGB, bool) {
	p, ok := w.ViewToOrig(&viewPos)
	if !ok || w.data.im == nil {
		return types.Point{}, colors.RGB{}, false
	}
	c := w.data.im.NRGBAAt(int(p.X), int(p.Y))
	return p, colors.RGB{c.R, c.G, c.B}, true
}

// Redraw renders the view from the original image and draws the
// annotations of the current file on top
func (w *World) Redraw() {
	if w.data.im == nil {
		w.imView = image.NewNRGBA(image.Rect(0, 0, 0, 0))
		return
	}
	w.imView = processing.RenderView(w.data.im, w.zoomBox, w.shapeWin)
	if !w.showAnnotations || !w.data.Meta.HasFile() {
		return
	}
	if td, ok := w.data.Tools[BboxToolName]; ok {
		if s, ok := td.(*annotations.Store[*annotations.BboxAnnotations]); ok {
			w.drawBoxes(s)
		}
	}
	if td, ok := w.data.Tools[BrushToolName]; ok {
		if s, ok := td.(*annotations.Store[*annotations.BrushAnnotations]); ok {
			w.drawStrokes(s)
		}
	}
}

func (w *World) drawBoxes(s *annotations.Store[*annotations.BboxAnnotations]) {
	annos, ok := s.Get(w.data.Meta.FilePath)
	if !ok {
		return
	}
	shapeOrig := w.ShapeOrig()
	overlays := make([]processing.BoxOverlay, 0, annos.Len())
	for _, a := range annos.All() {
		c, _ := s.Labels().Color(a.CatIdx)
		overlays = append(overlays, processing.BoxOverlay{
			Corners:  view.ToViewCorners(a.Geometry, shapeOrig, w.shapeWin, w.zoomBox),
			Color:    c,
			Selected: a.Selected,
		})
	}
	processing.DrawBoxes(w.imView, overlays)
}

func (w *World) drawStrokes(s *annotations.Store[*annotations.BrushAnnotations]) {
	annos, ok := s.Get(w.data.Meta.FilePath)
	if !ok {
		return
	}
	overlays := make([]processing.StrokeOverlay, 0, annos.Len())
	for _, a := range annos.All() {
		c, _ := s.Labels().Color(a.CatIdx)
		o := processing.StrokeOverlay{Color: c, Selected: a.Selected}
		for _, p := range a.Geometry.Points {
			if vp, ok := w.OrigToView(p); ok {
				o.Points = append(o.Points, vp)
			}
		}
		if len(o.Points) > 0 {
			overlays = append(overlays, o)
		}
	}
	processing.DrawStrokes(w.imView, overlays)
}
