// Package world holds the state of the image currently being annotated:
// the original image, the tool data of all files, the zoom box and the
// rendered view.
package world

import (
	"image"
	"maps"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/types"
)

// Tool names used as keys into DataRaw.Tools
const (
	BboxToolName  = "BBox"
	BrushToolName = "Brush"
	ZoomToolName  = "Zoom"
)

// MetaData describes where the current image comes from
type MetaData struct {
	FilePath     string `json:"file_path"`
	OpenedFolder string `json:"opened_folder"`
	ExportFolder string `json:"export_folder"`
}

// HasFile reports whether an image file is loaded
func (m MetaData) HasFile() bool {
	return m.FilePath != ""
}

// DataRaw is the part of the world that undo and redo restore
type DataRaw struct {
	im    *image.NRGBA
	Meta  MetaData
	Tools map[string]annotations.ToolData
}

// NewDataRaw creates the raw data for an image. A nil tools map starts empty.
func NewDataRaw(im *image.NRGBA, meta MetaData, tools map[string]annotations.ToolData) DataRaw {
	if tools == nil {
		tools = make(map[string]annotations.ToolData)
	}
	return DataRaw{im: im, Meta: meta, Tools: tools}
}

// Image returns the original image
func (d *DataRaw) Image() *image.NRGBA {
	return d.im
}

// Shape returns the shape of the original image
func (d *DataRaw) Shape() types.Shape {
	if d.im == nil {
		return types.Shape{}
	}
	return types.ShapeFromImage(d.im)
}

// Clone copies the tool data deeply. The image is shared since it is
// replaced, never edited in place.
func (d DataRaw) Clone() DataRaw {
	tools := make(map[string]annotations.ToolData, len(d.Tools))
	for name, td := range d.Tools {
		tools[name] = td.CloneToolData()
	}
	return DataRaw{im: d.im, Meta: d.Meta, Tools: tools}
}

// ToolNames returns the names of tools that have data
func (d *DataRaw) ToolNames() []string {
	return slices.Sorted(maps.Keys(d.Tools))
}

// BboxStore returns the bounding box store and creates it on first use
func (d *DataRaw) BboxStore(defaultLabel string) *annotations.Store[*annotations.BboxAnnotations] {
	if d.Tools == nil {
		d.Tools = make(map[string]annotations.ToolData)
	}
	if td, ok := d.Tools[BboxToolName]; ok {
		if s, ok := td.(*annotations.Store[*annotations.BboxAnnotations]); ok {
			return s
		}
		logrus.WithField("tool", BboxToolName).Warn("replacing tool data of unexpected type")
	}
	s := annotations.NewBboxStore(defaultLabel)
	d.Tools[BboxToolName] = s
	return s
}

// BrushStore returns the brush store and creates it on first use
func (d *DataRaw) BrushStore(defaultLabel string) *annotations.Store[*annotations.BrushAnnotations] {
	if d.Tools == nil {
		d.Tools = make(map[string]annotations.ToolData)
	}
	if td, ok := d.Tools[BrushToolName]; ok {
		if s, ok := td.(*annotations.Store[*annotations.BrushAnnotations]); ok {
			return s
		}
		logrus.WithField("tool", BrushToolName).Warn("replacing tool data of unexpected type")
	}
	s := annotations.NewBrushStore(defaultLabel)
	d.Tools[BrushToolName] = s
	return s
}
