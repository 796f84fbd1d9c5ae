package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/menta2k/image-annotator/internal/utils"
	"github.com/menta2k/image-annotator/pkg/annotations"
	"github.com/menta2k/image-annotator/pkg/export"
	"github.com/menta2k/image-annotator/pkg/history"
	"github.com/menta2k/image-annotator/pkg/view"
)

// EnvPrefix prefixes environment overrides, e.g. ANNOTATOR_VIEWER_ZOOM_STEP
const EnvPrefix = "ANNOTATOR"

// Config holds the application configuration
type Config struct {
	Viewer      ViewerConfig      `json:"viewer" envconfig:"VIEWER"`
	Annotations AnnotationsConfig `json:"annotations" envconfig:"ANNOTATIONS"`
	History     HistoryConfig     `json:"history" envconfig:"HISTORY"`
	Export      ExportConfig      `json:"export" envconfig:"EXPORT"`
	Logging     LoggingConfig     `json:"logging" envconfig:"LOGGING"`
}

// ViewerConfig holds the window and zoom settings
type ViewerConfig struct {
	WindowWidth  uint32  `json:"window_width" envconfig:"WINDOW_WIDTH"`
	WindowHeight uint32  `json:"window_height" envconfig:"WINDOW_HEIGHT"`
	ZoomStep     float64 `json:"zoom_step" envconfig:"ZOOM_STEP"`
	MinCrop      uint32  `json:"min_crop" envconfig:"MIN_CROP"`
}

// AnnotationsConfig holds defaults for new annotation stores
type AnnotationsConfig struct {
	DefaultLabel string                `json:"default_label" envconfig:"DEFAULT_LABEL"`
	SplitMode    annotations.SplitMode `json:"split_mode" envconfig:"SPLIT_MODE"`
}

// HistoryConfig holds the undo settings
type HistoryConfig struct {
	Capacity int `json:"capacity" envconfig:"CAPACITY"`
}

// ExportConfig holds where and how annotations are exported
type ExportConfig struct {
	Folder string        `json:"folder" envconfig:"FOLDER"`
	Format export.Format `json:"format" envconfig:"FORMAT"`
}

// LoggingConfig holds the log level
type LoggingConfig struct {
	Level string `json:"level" envconfig:"LEVEL"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			WindowWidth:  1280,
			WindowHeight: 720,
			ZoomStep:     view.DefaultZoomStep,
			MinCrop:      view.MinCrop,
		},
		Annotations: AnnotationsConfig{
			DefaultLabel: annotations.DefaultLabel,
			SplitMode:    annotations.SplitNone,
		},
		History: HistoryConfig{
			Capacity: history.DefaultCapacity,
		},
		Export: ExportConfig{
			Folder: "./export",
			Format: export.FormatJSON,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing keys keep
// their defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads filename if it exists, falls back to the defaults otherwise
// and applies environment overrides on top
func Load(filename string) (*Config, error) {
	config := Default()
	if filename != "" {
		if utils.FileExists(filename) {
			loaded, err := LoadFromFile(filename)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

// ApplyEnv overrides values from ANNOTATOR_* environment variables
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Viewer.WindowWidth == 0 || c.Viewer.WindowHeight == 0 {
		return fmt.Errorf("viewer.window_width and viewer.window_height must be positive")
	}

	if c.Viewer.ZoomStep <= 0 || c.Viewer.ZoomStep >= 1 {
		return fmt.Errorf("viewer.zoom_step must be between 0 and 1")
	}

	if c.Viewer.MinCrop < 2 {
		return fmt.Errorf("viewer.min_crop must be at least 2")
	}

	if c.Annotations.DefaultLabel == "" {
		return fmt.Errorf("annotations.default_label cannot be empty")
	}

	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be positive")
	}

	if _, err := export.ParseFormat(string(c.Export.Format)); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-annotator", "config.json")
}
