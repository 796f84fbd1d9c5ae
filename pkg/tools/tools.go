// Package tools turns input events into changes of the world. Each tool
// records its edits in the shared history.
package tools

import (
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/history"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/view"
	"github.com/menta2k/image-annotator/pkg/world"
)

// History is the undo/redo stack over world snapshots
type History = history.History[world.DataRaw]

// EventKind is the type of an input event
type EventKind int

const (
	MousePressed EventKind = iota
	MouseHeld
	MouseReleased
	KeyPressed
	Wheel
)

// Button is a mouse button
type Button int

const (
	LeftButton Button = iota
	RightButton
)

// Key is a keyboard key
type Key int

const (
	KeyNone Key = iota
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyC
	KeyV
	KeyY
	KeyZ
)

// Modifiers are the modifier keys held during an event
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Event is a single input event. ViewPos is nil when the mouse is outside
// the view.
type Event struct {
	Kind       EventKind
	Button     Button
	Key        Key
	Mods       Modifiers
	ViewPos    *types.Point
	WheelDelta float64
}

// Tool reacts to events
type Tool interface {
	Name() string
	OnEvent(w *world.World, h *History, ev Event)
}

// Options configures the tools
type Options struct {
	ZoomStep     float64
	MinCrop      uint32
	SplitMode    annotations.SplitMode
	DefaultLabel string
	Logger       *logrus.Logger
}

// DefaultOptions returns the default tool options
func DefaultOptions() Options {
	return Options{
		ZoomStep:     view.DefaultZoomStep,
		MinCrop:      view.MinCrop,
		SplitMode:    annotations.SplitNone,
		DefaultLabel: annotations.DefaultLabel,
	}
}

func (o Options) logger() *logrus.Logger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// NewTools creates the zoom, bounding box and brush tools
func NewTools(opts Options) []Tool {
	return []Tool{NewZoom(opts), NewBbox(opts), NewBrush(opts)}
}

// Dispatch handles undo (Ctrl+Z) and redo (Ctrl+Y) and forwards every
// other event to tool
func Dispatch(tool Tool, w *world.World, h *History, ev Event) {
	if ev.Kind == KeyPressed && ev.Mods.Ctrl {
		switch ev.Key {
		case KeyZ:
			if d, ok := h.Undo(*w.Data()); ok {
				w.SetData(d)
			}
			return
		case KeyY:
			if d, ok := h.Redo(*w.Data()); ok {
				w.SetData(d)
			}
			return
		}
	}
	tool.OnEvent(w, h, ev)
}

// Record pushes the current world state as an undo point
func Record(w *world.World, h *History, actor string) {
	h.Push(history.Record[world.DataRaw]{Data: *w.Data(), Actor: actor})
}

func arrowDelta(k Key) (int, int, bool) {
	switch k {
	case KeyUp:
		return 0, -1, true
	case KeyDown:
		return 0, 1, true
	case KeyLeft:
		return -1, 0, true
	case KeyRight:
		return 1, 0, true
	}
	return 0, 0, false
}
