package tools

import (
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/view"
	"github.com/menta2k/image-annotator/pkg/world"
)

// Zoom zooms with the wheel or a left-button drag, pans with the right
// button and resets with backspace. Zooming is not recorded in the history.
type Zoom struct {
	step     float64
	minCrop  uint32
	dragFrom *types.Point
	panFrom  *types.Point
	logger   *logrus.Logger
}

// NewZoom creates the zoom tool
func NewZoom(opts Options) *Zoom {
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = view.DefaultZoomStep
	}
	return &Zoom{step: opts.ZoomStep, minCrop: opts.MinCrop, logger: opts.logger()}
}

// Name implements Tool
func (z *Zoom) Name() string {
	return world.ZoomToolName
}

// OnEvent implements Tool
func (z *Zoom) OnEvent(w *world.World, _ *History, ev Event) {
	switch ev.Kind {
	case Wheel:
		if ev.WheelDelta == 0 {
			return
		}
		zb := view.ZoomBoxOnWheelStep(w.ZoomBox(), w.ShapeOrig(), ev.WheelDelta, z.step)
		w.SetZoomBox(zb)
	case MousePressed:
		if ev.ViewPos == nil {
			return
		}
		p := *ev.ViewPos
		if ev.Button == RightButton {
			z.panFrom = &p
		} else {
			z.dragFrom = &p
		}
	case MouseHeld:
		if ev.Button != RightButton || z.panFrom == nil || ev.ViewPos == nil {
			return
		}
		zb := view.PanZoomBox(w.ZoomBox(), *z.panFrom, *ev.ViewPos, w.ShapeOrig(), w.ShapeWin())
		if zb != nil {
			w.SetZoomBox(zb)
		}
		p := *ev.ViewPos
		z.panFrom = &p
	case MouseReleased:
		if ev.Button == RightButton {
			z.panFrom = nil
			return
		}
		from := z.dragFrom
		z.dragFrom = nil
		if from == nil || ev.ViewPos == nil {
			return
		}
		zb, ok := view.ZoomBoxFromViewDrag(*from, *ev.ViewPos, w.ShapeOrig(), w.ShapeWin(), w.ZoomBox(), z.minCrop)
		if ok && w.SetZoomBox(zb) {
			z.logger.WithField("zoom_box", zb.String()).Debug("zoomed to drag rectangle")
		}
	case KeyPressed:
		if ev.Key == KeyBackspace {
			w.SetZoomBox(nil)
		}
	}
}
