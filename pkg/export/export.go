// Package export converts annotation stores to and from their file
// representation and writes them into an export folder.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/colors"
	"github.com/menta2k/image-annotator/pkg/types"
)

// Format selects the codec of an export file
type Format string

const (
	// FormatJSON is human readable
	FormatJSON Format = "json"
	// FormatPacked is MessagePack
	FormatPacked Format = "msgpack"
)

var (
	// ErrUnknownFormat is returned for formats other than json and msgpack
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNoLabels is returned when imported data has an empty label table
	ErrNoLabels = errors.New("export data has no labels")
)

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatJSON, FormatPacked:
		return f, nil
	case "mp", "pack":
		return FormatPacked, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	return "." + string(f)
}

// FileBoxes are the boxes of one image
type FileBoxes struct {
	BBs     []types.BB `json:"bbs"`
	CatIdxs []int      `json:"cat_idxs"`
}

// FileStrokes are the brush strokes of one image
type FileStrokes struct {
	Strokes []annotations.Stroke `json:"strokes"`
	CatIdxs []int                `json:"cat_idxs"`
}

// LabelData is the label table as stored in export files
type LabelData struct {
	Labels []string     `json:"labels"`
	Colors []colors.RGB `json:"colors"`
	CatIDs []uint32     `json:"cat_ids"`
}

// BboxExportData is the exported bounding box store
type BboxExportData struct {
	LabelData
	Annotations map[string]FileBoxes `json:"annotations"`
}

// BrushExportData is the exported brush store
type BrushExportData struct {
	LabelData
	Annotations map[string]FileStrokes `json:"annotations"`
}

// ExportData is the content of an export file
type ExportData struct {
	OpenedFolder string           `json:"opened_folder,omitempty"`
	Bbox         *BboxExportData  `json:"bbox,omitempty"`
	Brush        *BrushExportData `json:"brush,omitempty"`
}

func labelDataOf(t *annotations.LabelTable) LabelData {
	return LabelData{Labels: t.Labels(), Colors: t.Colors(), CatIDs: t.CatIDs()}
}

// table validates the label data and builds a label table from it
func (d LabelData) table() (*annotations.LabelTable, error) {
	if len(d.Labels) == 0 {
		return nil, ErrNoLabels
	}
	if len(d.Colors) != len(d.Labels) || len(d.CatIDs) != len(d.Labels) {
		return nil, fmt.Errorf("%d labels, %d colors and %d category ids: %w",
			len(d.Labels), len(d.Colors), len(d.CatIDs), annotations.ErrLengthMismatch)
	}
	t := annotations.EmptyLabelTable()
	for i, label := range d.Labels {
		c, id := d.Colors[i], d.CatIDs[i]
		if err := t.Push(label, &c, &id); err != nil {
			return nil, fmt.Errorf("invalid label table: %w", err)
		}
	}
	return t, nil
}

// FromBboxStore converts a bounding box store for export
func FromBboxStore(s *annotations.Store[*annotations.BboxAnnotations]) *BboxExportData {
	d := &BboxExportData{
		LabelData:   labelDataOf(s.Labels()),
		Annotations: make(map[string]FileBoxes, s.Len()),
	}
	for _, path := range s.FilePaths() {
		annos, _ := s.Get(path)
		if annos.Len() == 0 {
			continue
		}
		bbs, cats := annos.ToData()
		d.Annotations[path] = FileBoxes{BBs: bbs, CatIdxs: cats}
	}
	return d
}

// ToStore rebuilds a bounding box store. Invalid data yields an error and
// no store.
func (d *BboxExportData) ToStore() (*annotations.Store[*annotations.BboxAnnotations], error) {
	labels, err := d.table()
	if err != nil {
		return nil, err
	}
	m := make(map[string]*annotations.BboxAnnotations, len(d.Annotations))
	for path, fb := range d.Annotations {
		annos, err := annotations.BboxFromBBsCats(fb.BBs, fb.CatIdxs)
		if err != nil {
			return nil, fmt.Errorf("annotations of %s: %w", path, err)
		}
		m[path] = annos
	}
	s := annotations.NewStore(labels, annotations.NewBboxAnnotations)
	if err := s.SetAnnotationsMap(m); err != nil {
		return nil, err
	}
	return s, nil
}

// FromBrushStore converts a brush store for export
func FromBrushStore(s *annotations.Store[*annotations.BrushAnnotations]) *BrushExportData {
	d := &BrushExportData{
		LabelData:   labelDataOf(s.Labels()),
		Annotations: make(map[string]FileStrokes, s.Len()),
	}
	for _, path := range s.FilePaths() {
		annos, _ := s.Get(path)
		if annos.Len() == 0 {
			continue
		}
		strokes, cats := annos.ToData()
		d.Annotations[path] = FileStrokes{Strokes: strokes, CatIdxs: cats}
	}
	return d
}

// ToStore rebuilds a brush store. Invalid data yields an error and no store.
func (d *BrushExportData) ToStore() (*annotations.Store[*annotations.BrushAnnotations], error) {
	labels, err := d.table()
	if err != nil {
		return nil, err
	}
	m := make(map[string]*annotations.BrushAnnotations, len(d.Annotations))
	for path, fs := range d.Annotations {
		annos, err := annotations.BrushFromStrokesCats(fs.Strokes, fs.CatIdxs)
		if err != nil {
			return nil, fmt.Errorf("annotations of %s: %w", path, err)
		}
		m[path] = annos
	}
	s := annotations.NewStore(labels, annotations.NewBrushAnnotations)
	if err := s.SetAnnotationsMap(m); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes data in the given format
func Encode(w io.Writer, data *ExportData, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case FormatPacked:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetSortMapKeys(true)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode msgpack: %w", err)
		}
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return nil
}

// Decode reads data in the given format
func Decode(r io.Reader, format Format) (*ExportData, error) {
	var data ExportData
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatPacked:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return &data, nil
}
