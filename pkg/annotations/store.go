package annotations

import (
	"fmt"
	"maps"
	"slices"

	"github.com/menta2k/image-annotator/internal/utils"
	"github.com/menta2k/image-annotator/pkg/types"
)

// Annotations is what the store needs from a per-image collection. A is
// the implementing pointer type itself.
type Annotations[A any] interface {
	Len() int
	CatIdxs() []int
	ReduceCatIdxs(removed int)
	SetCatIdx(idx, catIdx int) bool
	Clone() A
}

// ToolData is the tool-independent view on a store kept in the world
type ToolData interface {
	CloneToolData() ToolData
	Labels() *LabelTable
	FilePaths() []string
}

type fileAnnotations[A any] struct {
	annos A
	shape types.Shape
}

// Store maps image files to their annotations and shares one label table
// across all files
type Store[A Annotations[A]] struct {
	labels   *LabelTable
	files    map[string]fileAnnotations[A]
	newAnnos func() A
}

// NewStore creates an empty store
func NewStore[A Annotations[A]](labels *LabelTable, newAnnos func() A) *Store[A] {
	if labels == nil {
		labels = NewLabelTable(DefaultLabel)
	}
	return &Store[A]{
		labels:   labels,
		files:    make(map[string]fileAnnotations[A]),
		newAnnos: newAnnos,
	}
}

// NewBboxStore creates a bounding box store with a single category
func NewBboxStore(defaultLabel string) *Store[*BboxAnnotations] {
	return NewStore(NewLabelTable(defaultLabel), NewBboxAnnotations)
}

// NewBrushStore creates a brush store with a single category
func NewBrushStore(defaultLabel string) *Store[*BrushAnnotations] {
	return NewStore(NewLabelTable(defaultLabel), NewBrushAnnotations)
}

// Labels returns the shared label table
func (s *Store[A]) Labels() *LabelTable {
	return s.labels
}

// Len returns the number of files with annotations
func (s *Store[A]) Len() int {
	return len(s.files)
}

// GetMut returns the annotations of filePath and creates them on first use.
// The image shape is recorded alongside.
func (s *Store[A]) GetMut(filePath string, shape types.Shape) A {
	fa, ok := s.files[filePath]
	if !ok {
		fa = fileAnnotations[A]{annos: s.newAnnos()}
	}
	if !shape.IsEmpty() {
		fa.shape = shape
	}
	s.files[filePath] = fa
	return fa.annos
}

// Get returns the annotations of filePath if there are any
func (s *Store[A]) Get(filePath string) (A, bool) {
	fa, ok := s.files[filePath]
	return fa.annos, ok
}

// Shape returns the recorded image shape of filePath
func (s *Store[A]) Shape(filePath string) (types.Shape, bool) {
	fa, ok := s.files[filePath]
	return fa.shape, ok
}

// FilePaths returns all annotated files in natural order
func (s *Store[A]) FilePaths() []string {
	paths := slices.Collect(maps.Keys(s.files))
	slices.SortFunc(paths, utils.NaturalCompare)
	return paths
}

// CountByCategory tallies annotations per category index over all files
func (s *Store[A]) CountByCategory() []int {
	counts := make([]int, s.labels.Len())
	for _, fa := range s.files {
		for _, c := range fa.annos.CatIdxs() {
			if c >= 0 && c < len(counts) {
				counts[c]++
			}
		}
	}
	return counts
}

// SetAnnotationsMap replaces all annotations. It fails without changing
// anything if an annotation refers to a category that does not exist.
func (s *Store[A]) SetAnnotationsMap(m map[string]A) error {
	n := s.labels.Len()
	for path, annos := range m {
		for i, c := range annos.CatIdxs() {
			if c < 0 || c >= n {
				return fmt.Errorf("annotation %d of %s has category %d but there are %d labels: %w", i, path, c, n, ErrCatIdxOutOfRange)
			}
		}
	}
	files := make(map[string]fileAnnotations[A], len(m))
	for path, annos := range m {
		files[path] = fileAnnotations[A]{annos: annos, shape: s.files[path].shape}
	}
	s.files = files
	return nil
}

// AddLabel appends a new category with a fresh color and id
func (s *Store[A]) AddLabel(label string) error {
	return s.labels.Push(label, nil, nil)
}

// RemoveCategory deletes a category and re-indexes the annotations of all
// files accordingly
func (s *Store[A]) RemoveCategory(idx int) error {
	if err := s.labels.Remove(idx); err != nil {
		return err
	}
	for _, fa := range s.files {
		fa.annos.ReduceCatIdxs(idx)
	}
	return nil
}

// SetLabel assigns label to annotation idx of filePath. Unknown labels are
// added to the table first.
func (s *Store[A]) SetLabel(filePath string, idx int, label string) error {
	annos, ok := s.Get(filePath)
	if !ok || idx < 0 || idx >= annos.Len() {
		return fmt.Errorf("annotation %d of %s: %w", idx, filePath, ErrIndexOutOfRange)
	}
	catIdx, found := s.labels.Find(label)
	if !found {
		if err := s.labels.Push(label, nil, nil); err != nil {
			return err
		}
		catIdx = s.labels.Len() - 1
	}
	annos.SetCatIdx(idx, catIdx)
	return nil
}

// Clone returns a deep copy
func (s *Store[A]) Clone() *Store[A] {
	files := make(map[string]fileAnnotations[A], len(s.files))
	for path, fa := range s.files {
		files[path] = fileAnnotations[A]{annos: fa.annos.Clone(), shape: fa.shape}
	}
	return &Store[A]{labels: s.labels.Clone(), files: files, newAnnos: s.newAnnos}
}

// CloneToolData implements ToolData
func (s *Store[A]) CloneToolData() ToolData {
	return s.Clone()
}
