package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	imageannotator "github.com/menta2k/image-annotator"
	"github.com/menta2k/image-annotator/internal/config"
	"github.com/menta2k/image-annotator/internal/logging"
	"github.com/menta2k/image-annotator/internal/utils"
	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/export"
	"github.com/menta2k/image-annotator/pkg/tools"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/world"
)

func main() {
	var in, folder, configPath, logLevel string
	var importPath, boxes, label string
	var render, ext string
	var quality int
	var zoomSteps int
	var exportFmt, exportDir string
	var list, hide bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp/tiff/bmp)")
	flag.StringVar(&folder, "folder", "", "opened folder, names the export file (default: directory of -in)")
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "config file")
	flag.StringVar(&logLevel, "loglevel", "", "log level (overrides config)")

	flag.StringVar(&importPath, "import", "", "annotation file to import (.json or .msgpack)")
	flag.StringVar(&boxes, "boxes", "", "boxes to add, e.g. \"[10, 10, 50, 40];[70, 10, 20, 20]\"")
	flag.StringVar(&label, "label", "", "label of the added boxes")

	flag.IntVar(&zoomSteps, "zoom", 0, "wheel steps to zoom in (negative zooms out)")
	flag.StringVar(&render, "render", "", "write the rendered view to this path")
	flag.StringVar(&ext, "ext", "png", "format of the rendered view: jpg|png|webp")
	flag.IntVar(&quality, "quality", 90, "JPEG/WebP quality of the rendered view (1-100)")
	flag.BoolVar(&hide, "hide", false, "render without annotations")

	flag.StringVar(&exportFmt, "export", "", "export annotations: json|msgpack")
	flag.StringVar(&exportDir, "exportdir", "", "export folder (overrides config)")
	flag.BoolVar(&list, "list", false, "list the images of the folder in natural order and exit")

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if exportDir != "" {
		cfg.Export.Folder = exportDir
	}
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if folder == "" && in != "" {
		folder = filepath.Dir(in)
	}
	if list {
		if err := listFolder(folder); err != nil {
			logger.Fatal(err)
		}
		return
	}
	if in == "" {
		logger.Fatalf("usage: %s -in image.png [-folder dir] [-import file] [-boxes \"[x, y, w, h];...\"] [-zoom n] [-render out.png] [-export json|msgpack]", filepath.Base(os.Args[0]))
	}

	a, err := imageannotator.NewWithConfig(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	if err := a.LoadImage(in, folder); err != nil {
		logger.Fatal(err)
	}

	if importPath != "" {
		if err := a.Import(importPath); err != nil {
			logger.Fatal(err)
		}
	}

	if boxes != "" {
		n, err := addBoxes(a, boxes, label)
		if err != nil {
			logger.Fatal(err)
		}
		logger.WithField("count", n).Info("added boxes")
	}

	if zoomSteps != 0 {
		if err := a.SelectTool(world.ZoomToolName); err != nil {
			logger.Fatal(err)
		}
		delta := 1.0
		if zoomSteps < 0 {
			delta, zoomSteps = -1, -zoomSteps
		}
		for i := 0; i < zoomSteps; i++ {
			a.HandleEvent(tools.Event{Kind: tools.Wheel, WheelDelta: delta})
		}
		if zb := a.World().ZoomBox(); zb != nil {
			logger.WithField("zoom_box", zb.String()).Info("zoomed")
		}
	}

	printSummary(a, logger)

	if render != "" {
		a.World().SetAnnotationsVisible(!hide)
		if err := a.SaveView(render, ext, quality); err != nil {
			logger.Fatal(err)
		}
		logger.WithField("path", render).Info("wrote view")
	}

	if exportFmt != "" {
		format, err := export.ParseFormat(exportFmt)
		if err != nil {
			logger.Fatal(err)
		}
		if _, err := a.Export(format); err != nil {
			logger.Fatal(err)
		}
	}
}

func listFolder(folder string) error {
	if !utils.DirExists(folder) {
		return fmt.Errorf("-list needs an existing -folder, got %q", folder)
	}
	files, err := utils.ListImageFiles(folder, false)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func addBoxes(a *imageannotator.Annotator, list, label string) (int, error) {
	w := a.World()
	store := w.Data().BboxStore(w.DefaultLabel())
	if label != "" {
		idx, ok := store.Labels().Find(label)
		if !ok {
			if err := store.AddLabel(label); err != nil {
				return 0, err
			}
			idx = store.Labels().Len() - 1
		}
		if err := store.Labels().SetCurrent(idx); err != nil {
			return 0, err
		}
	}

	shape := w.ShapeOrig()
	annos := store.GetMut(w.CurrentFilePath(), shape)
	n := 0
	for _, part := range strings.Split(list, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		bb, err := types.ParseBB(part)
		if err != nil {
			return n, err
		}
		if !bb.IsContainedIn(shape) {
			return n, fmt.Errorf("box %s does not fit into an image of %s", bb, shape)
		}
		annos.Add(bb, store.Labels().Current())
		n++
	}
	tools.Record(w, a.History(), world.BboxToolName)
	w.Redraw()
	return n, nil
}

func printSummary(a *imageannotator.Annotator, logger *logrus.Logger) {
	d := a.World().Data()
	for _, name := range d.ToolNames() {
		td := d.Tools[name]
		labels := td.Labels()
		var counts []int
		switch s := td.(type) {
		case *annotations.Store[*annotations.BboxAnnotations]:
			counts = s.CountByCategory()
		case *annotations.Store[*annotations.BrushAnnotations]:
			counts = s.CountByCategory()
		}
		for i, l := range labels.Labels() {
			c, _ := labels.Color(i)
			n := 0
			if i < len(counts) {
				n = counts[i]
			}
			logger.WithFields(logrus.Fields{
				"tool":  name,
				"label": l,
				"color": c.String(),
				"count": n,
			}).Info("category")
		}
		logger.WithFields(logrus.Fields{"tool": name, "files": len(td.FilePaths())}).Debug("annotated files")
	}
}
