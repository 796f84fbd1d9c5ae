package tools

import (
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/world"
)

// Brush paints freehand strokes with the left button and moves selected
// strokes with the right button
type Brush struct {
	defaultLabel string
	drawing      bool
	moveFrom     *types.Point
	moved        bool
	logger       *logrus.Logger
}

// NewBrush creates the brush tool
func NewBrush(opts Options) *Brush {
	return &Brush{defaultLabel: opts.DefaultLabel, logger: opts.logger()}
}

// Name implements Tool
func (b *Brush) Name() string {
	return world.BrushToolName
}

// OnEvent implements Tool
func (b *Brush) OnEvent(w *world.World, h *History, ev Event) {
	meta := w.Data().Meta
	if !meta.HasFile() {
		return
	}
	store := w.Data().BrushStore(b.defaultLabel)
	shape := w.ShapeOrig()
	annos := store.GetMut(meta.FilePath, shape)

	switch ev.Kind {
	case MousePressed:
		p, ok := w.ViewToOrig(ev.ViewPos)
		if !ok {
			return
		}
		switch {
		case ev.Button == RightButton:
			b.moveFrom, b.moved = &p, false
		case ev.Mods.Ctrl:
			if idx, ok := annos.IndexAt(p); ok {
				annos.ToggleSelection(idx)
				w.Redraw()
			}
		default:
			annos.StartStroke(p, store.Labels().Current())
			b.drawing = true
			w.Redraw()
		}
	case MouseHeld:
		p, ok := w.ViewToOrig(ev.ViewPos)
		if !ok {
			return
		}
		if ev.Button == RightButton {
			if b.moveFrom != nil && annos.SelectedFollowMovement(*b.moveFrom, p, shape) {
				b.moved = true
				b.moveFrom = &p
				w.Redraw()
			}
			return
		}
		if b.drawing && annos.ExtendLast(p) {
			w.Redraw()
		}
	case MouseReleased:
		if ev.Button == RightButton {
			if b.moved {
				Record(w, h, b.Name())
			}
			b.moveFrom, b.moved = nil, false
			return
		}
		if b.drawing {
			b.drawing = false
			b.logger.WithField("file", meta.FilePath).Debug("finished stroke")
			Record(w, h, b.Name())
		}
	case KeyPressed:
		changed := false
		switch {
		case ev.Key == KeyDelete:
			changed = annos.RemoveSelected() > 0
		case ev.Key == KeyBackspace:
			changed = annos.Len() > 0
			annos.Clear()
		case ev.Key == KeyA && ev.Mods.Ctrl:
			annos.SelectAll()
			w.Redraw()
		}
		if changed {
			Record(w, h, b.Name())
			w.Redraw()
		}
	}
}
