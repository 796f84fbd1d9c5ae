package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-annotator/internal/utils"
)

var (
	// ErrNoExportFolder is returned by Write without an export folder
	ErrNoExportFolder = errors.New("no export folder given")
	// ErrNoOpenedFolder is returned by Write when no folder has been opened
	ErrNoOpenedFolder = errors.New("no folder opened")
)

// LastPathPart returns the last non-empty component of path split at sep.
// Paths wrapped in matching single or double quotes keep their quotes. The
// second result is false if sep does not occur in path.
func LastPathPart(path string, sep byte) (string, bool) {
	if strings.IndexByte(path, sep) < 0 {
		return "", false
	}
	var quote string
	if len(path) >= 2 && (path[0] == '"' || path[0] == '\'') && path[len(path)-1] == path[0] {
		quote = path[:1]
		path = path[1 : len(path)-1]
	}
	parts := strings.Split(strings.TrimRight(path, string(sep)), string(sep))
	last := parts[len(parts)-1]
	if last == "" {
		return "", false
	}
	return quote + last + quote, true
}

// fileStem derives the export file name from the opened folder
func fileStem(openedFolder string) string {
	stem := openedFolder
	if p, ok := LastPathPart(stem, '/'); ok {
		stem = p
	}
	if p, ok := LastPathPart(stem, '\\'); ok {
		stem = p
	}
	return utils.SanitizeFilename(strings.Trim(stem, `"'`))
}

// Writer writes export files into a folder
type Writer struct {
	ExportFolder string
	Logger       *logrus.Logger
}

// NewWriter creates a writer for exportFolder
func NewWriter(exportFolder string, logger *logrus.Logger) *Writer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Writer{ExportFolder: exportFolder, Logger: logger}
}

// Path returns the export file path for an opened folder
func (w *Writer) Path(openedFolder string, format Format) (string, error) {
	if w.ExportFolder == "" {
		return "", ErrNoExportFolder
	}
	stem := fileStem(openedFolder)
	if stem == "" {
		return "", ErrNoOpenedFolder
	}
	return filepath.Join(w.ExportFolder, stem+format.Ext()), nil
}

// Write stores data under a name derived from data.OpenedFolder and returns
// the written path
func (w *Writer) Write(data *ExportData, format Format) (string, error) {
	path, err := w.Path(data.OpenedFolder, format)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(w.ExportFolder); err != nil {
		return "", fmt.Errorf("failed to create export folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, data, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.Logger.WithFields(logrus.Fields{
		"path":   path,
		"format": format,
	}).Info("exported annotations")
	return path, nil
}

// Read loads an export file, picking the codec from its extension
func (w *Writer) Read(path string) (*ExportData, error) {
	return ReadFile(path)
}

// ReadFile loads an export file, picking the codec from its extension
func ReadFile(path string) (*ExportData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}
