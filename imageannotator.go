// Package imageannotator provides an interactive image annotation engine.
//
// An Annotator owns the image currently being annotated together with the
// bounding box and brush annotations of all files of a folder. Input events
// are routed to the active tool, every edit is recorded for undo and redo,
// and the view shown to the user is re-rendered from the original image,
// the zoom box and the window size.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		imageannotator "github.com/menta2k/image-annotator"
//		"github.com/menta2k/image-annotator/pkg/export"
//		"github.com/menta2k/image-annotator/pkg/tools"
//		"github.com/menta2k/image-annotator/pkg/types"
//	)
//
//	func main() {
//		a := imageannotator.New()
//		if err := a.LoadImage("photos/cat.png", "photos"); err != nil {
//			log.Fatal(err)
//		}
//
//		// Draw a box with the bounding box tool
//		a.SelectTool("BBox")
//		from, to := types.Pt(10, 10), types.Pt(120, 80)
//		a.HandleEvent(tools.Event{Kind: tools.MousePressed, ViewPos: &from})
//		a.HandleEvent(tools.Event{Kind: tools.MouseReleased, ViewPos: &to})
//
//		if _, err := a.Export(export.FormatJSON); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
// 1. Geometry (pkg/types): shapes, points and bounding boxes
// 2. View (pkg/view): view/original coordinate transforms and zooming
// 3. Annotations (pkg/annotations): per-file stores, labels and split mode
// 4. History (pkg/history): bounded undo/redo over world snapshots
// 5. World and tools (pkg/world, pkg/tools): the live state and its editors
// 6. Export (pkg/export): JSON and MessagePack persistence
package imageannotator

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/internal/config"
	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/colors"
	"github.com/menta2k/image-annotator/pkg/export"
	"github.com/menta2k/image-annotator/pkg/history"
	"github.com/menta2k/image-annotator/pkg/notify"
	"github.com/menta2k/image-annotator/pkg/processing"
	"github.com/menta2k/image-annotator/pkg/tools"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/world"
)

// Version of the image annotator library
const Version = "1.0.0"

// Actors recorded by the annotator itself
const (
	actorLoad   = "load"
	actorImport = "import"
)

// ErrUnknownTool is returned by SelectTool for names no tool has
var ErrUnknownTool = errors.New("unknown tool")

// Request asks the annotator to open an image. Requests can be sent from
// any goroutine and are picked up by Poll.
type Request struct {
	FilePath     string
	OpenedFolder string
}

// Status is the readout of the pixel under the mouse
type Status struct {
	Pos   types.Point
	Color colors.RGB
}

func (s Status) String() string {
	return fmt.Sprintf("(%d, %d) -> %s", s.Pos.X, s.Pos.Y, s.Color)
}

// Annotator is the main interface for annotating images
type Annotator struct {
	cfg       *config.Config
	logger    *logrus.Logger
	processor *processing.Processor
	world     *world.World
	history   *tools.History
	tools     []tools.Tool
	active    int
	requests  *notify.Latest[Request]
}

// New creates an annotator with the default configuration
func New() *Annotator {
	a, _ := NewWithConfig(config.Default(), nil)
	return a
}

// NewWithConfig creates an annotator with a custom configuration. A nil
// logger uses the standard logrus logger.
func NewWithConfig(cfg *config.Config, logger *logrus.Logger) (*Annotator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	shapeWin := types.NewShape(cfg.Viewer.WindowWidth, cfg.Viewer.WindowHeight)
	w := world.NewLoading(shapeWin, shapeWin, nil, logger)
	w.SetDefaultLabel(cfg.Annotations.DefaultLabel)

	opts := tools.Options{
		ZoomStep:     cfg.Viewer.ZoomStep,
		MinCrop:      cfg.Viewer.MinCrop,
		SplitMode:    cfg.Annotations.SplitMode,
		DefaultLabel: cfg.Annotations.DefaultLabel,
		Logger:       logger,
	}

	return &Annotator{
		cfg:       cfg,
		logger:    logger,
		processor: processing.NewProcessor(),
		world:     w,
		history:   history.New[world.DataRaw](cfg.History.Capacity),
		tools:     tools.NewTools(opts),
		requests:  notify.NewLatest[Request](1),
	}, nil
}

// Config returns the configuration in use
func (a *Annotator) Config() *config.Config {
	return a.cfg
}

// World returns the live world
func (a *Annotator) World() *world.World {
	return a.world
}

// History returns the undo/redo history
func (a *Annotator) History() *tools.History {
	return a.history
}

// LoadImage opens an image file. The annotations of all files are carried
// over and the load is recorded so it can be undone.
func (a *Annotator) LoadImage(path, openedFolder string) error {
	img, err := a.processor.LoadImage(path)
	if err != nil {
		return err
	}
	a.SetImage(img, world.MetaData{FilePath: path, OpenedFolder: openedFolder})
	return nil
}

// SetImage shows an already decoded image
func (a *Annotator) SetImage(img *image.NRGBA, meta world.MetaData) {
	prev := a.world.Data()
	if meta.ExportFolder == "" {
		meta.ExportFolder = prev.Meta.ExportFolder
	}
	w := world.FromImage(img, meta, prev.Tools, a.world.ShapeWin(), a.logger)
	w.SetDefaultLabel(a.world.DefaultLabel())
	w.SetAnnotationsVisible(a.world.AnnotationsVisible())
	a.world = w
	a.fitBoxes()
	tools.Record(a.world, a.history, actorLoad)

	a.logger.WithFields(logrus.Fields{
		"file":  meta.FilePath,
		"shape": a.world.ShapeOrig().String(),
	}).Info("loaded image")
}

// fitBoxes clips the boxes of the current file if they were drawn on an
// image of another size or of unknown size, as after an import
func (a *Annotator) fitBoxes() {
	d := a.world.Data()
	if _, ok := d.Tools[world.BboxToolName]; !ok {
		return
	}
	store := d.BboxStore(a.world.DefaultLabel())
	path, shape := d.Meta.FilePath, a.world.ShapeOrig()
	old, ok := store.Shape(path)
	if !ok || shape.IsEmpty() || old == shape {
		return
	}
	annos := store.GetMut(path, shape)
	if annos.Len() == 0 {
		return
	}
	dropped := annos.FitInto(shape)
	a.logger.WithFields(logrus.Fields{
		"file":      path,
		"old_shape": old.String(),
		"shape":     shape.String(),
		"dropped":   dropped,
	}).Warn("clipped boxes to image")
	a.world.Redraw()
}

// RequestImage queues an image to be opened by the next Poll. Only the most
// recent request is kept.
func (a *Annotator) RequestImage(req Request) bool {
	return a.requests.Send(req)
}

// Poll opens the most recently requested image, if any. It never blocks.
func (a *Annotator) Poll() (bool, error) {
	req, ok := a.requests.TryRecv()
	if !ok {
		return false, nil
	}
	if err := a.LoadImage(req.FilePath, req.OpenedFolder); err != nil {
		return false, err
	}
	return true, nil
}

// Tools returns the available tools
func (a *Annotator) Tools() []tools.Tool {
	return a.tools
}

// ActiveTool returns the tool receiving events
func (a *Annotator) ActiveTool() tools.Tool {
	return a.tools[a.active]
}

// SelectTool activates the tool called name
func (a *Annotator) SelectTool(name string) error {
	for i, t := range a.tools {
		if t.Name() == name {
			a.active = i
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrUnknownTool)
}

// SetSplitMode changes how the bounding box tool couples adjacent boxes
func (a *Annotator) SetSplitMode(mode annotations.SplitMode) {
	for _, t := range a.tools {
		if b, ok := t.(*tools.Bbox); ok {
			b.SetSplitMode(mode)
		}
	}
}

// SetLabelOfSelected assigns label to the selected boxes of the current
// file. Unknown labels become new categories. It returns how many boxes
// changed.
func (a *Annotator) SetLabelOfSelected(label string) (int, error) {
	d := a.world.Data()
	if !d.Meta.HasFile() {
		return 0, nil
	}
	store := d.BboxStore(a.world.DefaultLabel())
	annos, ok := store.Get(d.Meta.FilePath)
	if !ok || annos.NumSelected() == 0 {
		return 0, nil
	}
	idx, found := store.Labels().Find(label)
	if !found {
		if err := store.AddLabel(label); err != nil {
			return 0, err
		}
		idx = store.Labels().Len() - 1
	}
	n := annos.SetCatIdxSelected(idx)
	tools.Record(a.world, a.history, world.BboxToolName)
	a.world.Redraw()
	return n, nil
}

// RenameLabel renames a bounding box category. The boxes keep their
// category.
func (a *Annotator) RenameLabel(from, to string) error {
	store := a.world.Data().BboxStore(a.world.DefaultLabel())
	idx, ok := store.Labels().Find(from)
	if !ok {
		return fmt.Errorf("label %q: %w", from, annotations.ErrCatIdxOutOfRange)
	}
	if err := store.Labels().Rename(idx, to); err != nil {
		return err
	}
	tools.Record(a.world, a.history, world.BboxToolName)
	return nil
}

// HandleEvent routes an input event to the active tool
func (a *Annotator) HandleEvent(ev tools.Event) {
	tools.Dispatch(a.ActiveTool(), a.world, a.history, ev)
}

// Undo restores the previous state
func (a *Annotator) Undo() bool {
	d, ok := a.history.Undo(*a.world.Data())
	if ok {
		a.world.SetData(d)
	}
	return ok
}

// Redo restores the state undone last
func (a *Annotator) Redo() bool {
	d, ok := a.history.Redo(*a.world.Data())
	if ok {
		a.world.SetData(d)
	}
	return ok
}

// Resize changes the window size
func (a *Annotator) Resize(shapeWin types.Shape) {
	a.world.SetShapeWin(shapeWin)
}

// View returns the rendered view with annotations
func (a *Annotator) View() *image.NRGBA {
	return a.world.ViewImage()
}

// StatusAt returns position and color of the original pixel under viewPos
func (a *Annotator) StatusAt(viewPos types.Point) (Status, bool) {
	p, c, ok := a.world.PixelAt(viewPos)
	if !ok {
		return Status{}, false
	}
	return Status{Pos: p, Color: c}, true
}

// ExportData collects the annotations of all tools
func (a *Annotator) ExportData() *export.ExportData {
	d := a.world.Data()
	data := &export.ExportData{OpenedFolder: d.Meta.OpenedFolder}
	if _, ok := d.Tools[world.BboxToolName]; ok {
		data.Bbox = export.FromBboxStore(d.BboxStore(a.world.DefaultLabel()))
	}
	if _, ok := d.Tools[world.BrushToolName]; ok {
		data.Brush = export.FromBrushStore(d.BrushStore(a.world.DefaultLabel()))
	}
	return data
}

// Export writes the annotations into the export folder and returns the
// written path
func (a *Annotator) Export(format export.Format) (string, error) {
	folder := a.world.Data().Meta.ExportFolder
	if folder == "" {
		folder = a.cfg.Export.Folder
	}
	return export.NewWriter(folder, a.logger).Write(a.ExportData(), format)
}

// Import replaces the annotations with those of an export file. Nothing
// changes if the file is invalid.
func (a *Annotator) Import(path string) error {
	data, err := export.ReadFile(path)
	if err != nil {
		return err
	}

	stores := make(map[string]annotations.ToolData)
	if data.Bbox != nil {
		s, err := data.Bbox.ToStore()
		if err != nil {
			return fmt.Errorf("failed to import boxes from %s: %w", path, err)
		}
		stores[world.BboxToolName] = s
	}
	if data.Brush != nil {
		s, err := data.Brush.ToStore()
		if err != nil {
			return fmt.Errorf("failed to import strokes from %s: %w", path, err)
		}
		stores[world.BrushToolName] = s
	}

	d := a.world.Data().Clone()
	for name, s := range stores {
		d.Tools[name] = s
	}
	if d.Meta.OpenedFolder == "" {
		d.Meta.OpenedFolder = data.OpenedFolder
	}
	a.world.SetData(d)
	a.fitBoxes()
	tools.Record(a.world, a.history, actorImport)

	a.logger.WithFields(logrus.Fields{
		"path":  path,
		"tools": len(stores),
	}).Info("imported annotations")
	return nil
}

// SaveView writes the rendered view to path
func (a *Annotator) SaveView(path, format string, quality int) error {
	return a.processor.SaveImage(a.View(), path, format, quality, false)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
