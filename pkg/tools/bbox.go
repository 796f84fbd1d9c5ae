package tools

import (
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/world"
)

// CornerGrabDist is how close in original pixels a press must be to a
// corner of a selected box to drag that corner
const CornerGrabDist = 3

// Bbox draws boxes with a left-button drag, selects with a click
// (Ctrl+click toggles, Shift+drag selects every box inside the dragged
// area) and moves selected boxes with the right button. Dragging a corner
// of a selected box reshapes it.
// Arrows resize the selection, Alt+arrows move the top-left edges and
// Ctrl+arrows move the boxes. Backspace removes the last box.
type Bbox struct {
	split        annotations.SplitMode
	defaultLabel string
	pressOrig    *types.Point
	corner       *cornerDrag
	moveFrom     *types.Point
	moved        bool
	clipboard    *annotations.ClipboardData
	logger       *logrus.Logger
}

// cornerDrag is a box being reshaped around its fixed anchor corner
type cornerDrag struct {
	idx    int
	anchor types.Point
}

// grabCorner finds a selected box with a corner next to p. The anchor is
// the corner farthest from p.
func grabCorner(annos *annotations.BboxAnnotations, p types.Point) (*cornerDrag, bool) {
	grab := types.BB{X: p.X, Y: p.Y, W: 1, H: 1}
	for i, a := range annos.All() {
		if !a.Selected {
			continue
		}
		cs, _, _ := a.Geometry.MaxCornerSquareDist(grab)
		c := a.Geometry.OppositeCorner(cs)
		dx, dy := int64(c.X)-int64(p.X), int64(c.Y)-int64(p.Y)
		if dx*dx+dy*dy <= CornerGrabDist*CornerGrabDist {
			return &cornerDrag{idx: i, anchor: a.Geometry.Corner(cs)}, true
		}
	}
	return nil, false
}

// NewBbox creates the bounding box tool
func NewBbox(opts Options) *Bbox {
	return &Bbox{split: opts.SplitMode, defaultLabel: opts.DefaultLabel, logger: opts.logger()}
}

// Name implements Tool
func (b *Bbox) Name() string {
	return world.BboxToolName
}

// SetSplitMode changes how stacked boxes are coupled
func (b *Bbox) SetSplitMode(m annotations.SplitMode) {
	b.split = m
}

// OnEvent implements Tool
func (b *Bbox) OnEvent(w *world.World, h *History, ev Event) {
	meta := w.Data().Meta
	if !meta.HasFile() {
		return
	}
	store := w.Data().BboxStore(b.defaultLabel)
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
			b.pressOrig = &p
			if !ev.Mods.Shift {
				b.corner, _ = grabCorner(annos, p)
			}
		}
	case MouseHeld:
		if ev.Button != RightButton || b.moveFrom == nil {
			return
		}
		p, ok := w.ViewToOrig(ev.ViewPos)
		if !ok {
			return
		}
		if annos.SelectedFollowMovement(*b.moveFrom, p, shape, b.split) {
			b.moved = true
			w.Redraw()
		}
		b.moveFrom = &p
	case MouseReleased:
		if ev.Button == RightButton {
			if b.moved {
				Record(w, h, b.Name())
			}
			b.moveFrom, b.moved = nil, false
			return
		}
		start, corner := b.pressOrig, b.corner
		b.pressOrig, b.corner = nil, nil
		if corner != nil && start != nil {
			if q, ok := w.ViewToOrigClamped(ev.ViewPos); ok && q != *start {
				bb := types.BBFromPoints(corner.anchor, q)
				if annos.Reshape(corner.idx, bb, shape) {
					b.logger.WithFields(logrus.Fields{"file": meta.FilePath, "bb": bb.String()}).Debug("reshaped box")
					Record(w, h, b.Name())
					w.Redraw()
				}
				return
			}
		}
		p, ok := w.ViewToOrig(ev.ViewPos)
		if start == nil || !ok {
			return
		}
		if p == *start {
			annos.DeselectAll()
			if idx, ok := annos.IndexAt(p); ok {
				annos.Select(idx, true)
			}
			w.Redraw()
			return
		}
		bb := types.BBFromPoints(*start, p)
		if ev.Mods.Shift {
			annos.DeselectAll()
			n := annos.SelectContained(bb)
			b.logger.WithFields(logrus.Fields{"file": meta.FilePath, "selected": n}).Debug("area selection")
			w.Redraw()
			return
		}
		if !bb.IsContainedIn(shape) {
			return
		}
		annos.Add(bb, store.Labels().Current())
		b.logger.WithFields(logrus.Fields{"file": meta.FilePath, "bb": bb.String()}).Debug("added box")
		Record(w, h, b.Name())
		w.Redraw()
	case KeyPressed:
		b.onKey(w, h, ev, store, annos, shape)
	}
}

func (b *Bbox) onKey(w *world.World, h *History, ev Event, store *annotations.Store[*annotations.BboxAnnotations], annos *annotations.BboxAnnotations, shape types.Shape) {
	changed := false
	switch {
	case ev.Key == KeyDelete:
		changed = annos.RemoveSelected() > 0
	case ev.Key == KeyBackspace:
		if removed, ok := annos.Remove(annos.Len() - 1); ok {
			b.logger.WithField("bb", removed.Geometry.String()).Debug("removed last box")
			changed = true
		}
	case ev.Key == KeyA && ev.Mods.Ctrl:
		annos.SelectAll()
		w.Redraw()
	case ev.Key == KeyC && ev.Mods.Ctrl:
		b.clipboard = annotations.CopySelected(annos)
	case ev.Key == KeyV && ev.Mods.Ctrl:
		if b.clipboard != nil {
			changed = b.clipboard.PasteInto(annos, shape, store.Labels().Len()) > 0
		}
	default:
		dx, dy, ok := arrowDelta(ev.Key)
		if !ok || annos.NumSelected() == 0 {
			return
		}
		switch {
		case ev.Mods.Ctrl:
			from := types.Pt(1, 1)
			to := types.Pt(uint32(1+dx), uint32(1+dy))
			changed = annos.SelectedFollowMovement(from, to, shape, b.split)
		case ev.Mods.Alt:
			annos.ResizeSelected(dx, dy, shape, annotations.EdgeMin, b.split)
			changed = true
		default:
			annos.ResizeSelected(dx, dy, shape, annotations.EdgeMax, b.split)
			changed = true
		}
	}
	if changed {
		Record(w, h, b.Name())
		w.Redraw()
	}
}
