package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "focus_tracker/internal/errors"

	"gopkg.in/yaml.v3"
)

const (
	AppName        = "focus-tracker"
	configFileName = "config.yaml"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Camera configures the ffmpeg frame source.
type Camera struct {
	Disabled    bool
	FFmpegPath  string
	InputFormat string
	Device      string
	Width       int
	Height      int
}

// Detector configures the pigo face detector.
type Detector struct {
	CascadePath string
	MinSize     int
	MinQuality  float64
}

// Logging configures the diagnostics log file.
type Logging struct {
	Level string
	File  string
}

type Config struct {
	SampleInterval time.Duration
	SummaryLimit   int
	ExportDir      string
	LogStore       string
	Camera         Camera
	Detector       Detector
	Logging        Logging
}

func Default() Config {
	return Config{
		SampleInterval: 100 * time.Millisecond,
		SummaryLimit:   100,
		ExportDir:      ".",
		LogStore:       StoreMemory,
		Camera: Camera{
			FFmpegPath:  "ffmpeg",
			InputFormat: defaultInputFormat(),
			Device:      defaultDevice(),
			Width:       320,
			Height:      240,
		},
		Detector: Detector{
			MinSize:    40,
			MinQuality: 5.0,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

type yamlCamera struct {
	Disabled    bool   `yaml:"disabled"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	InputFormat string `yaml:"input_format"`
	Device      string `yaml:"device"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

type yamlDetector struct {
	CascadePath string  `yaml:"cascade_path"`
	MinSize     int     `yaml:"min_size"`
	MinQuality  float64 `yaml:"min_quality"`
}

type yamlLogging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type yamlConfig struct {
	SampleIntervalMs int          `yaml:"sample_interval_ms"`
	SummaryLimit     int          `yaml:"summary_limit"`
	ExportDir        string       `yaml:"export_dir"`
	LogStore         string       `yaml:"log_store"`
	Camera           yamlCamera   `yaml:"camera"`
	Detector         yamlDetector `yaml:"detector"`
	Logging          yamlLogging  `yaml:"logging"`
}

// Load reads the config from the user config directory.
// A missing file yields the defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), apperrors.NewConfigError("resolve config path", err)
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, apperrors.NewConfigError(fmt.Sprintf("read %s", path), err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return cfg, apperrors.NewConfigError(fmt.Sprintf("parse %s", path), err)
	}

	apply(&cfg, fileData)
	return cfg, nil
}

// Path is the location of config.yaml under the user config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, AppName, configFileName), nil
}

// DefaultLogFile is used when logging.file is empty.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName, "focus.log")
	}
	return filepath.Join(dir, AppName, "focus.log")
}

// Out-of-range values keep their defaults.
func apply(cfg *Config, fileData yamlConfig) {
	if fileData.SampleIntervalMs > 0 {
		cfg.SampleInterval = time.Duration(fileData.SampleIntervalMs) * time.Millisecond
	}
	if fileData.SummaryLimit > 0 {
		cfg.SummaryLimit = fileData.SummaryLimit
	}
	if strings.TrimSpace(fileData.ExportDir) != "" {
		cfg.ExportDir = strings.TrimSpace(fileData.ExportDir)
	}
	switch strings.ToLower(strings.TrimSpace(fileData.LogStore)) {
	case StoreMemory:
		cfg.LogStore = StoreMemory
	case StoreSQLite:
		cfg.LogStore = StoreSQLite
	}

	cfg.Camera.Disabled = fileData.Camera.Disabled
	if fileData.Camera.FFmpegPath != "" {
		cfg.Camera.FFmpegPath = fileData.Camera.FFmpegPath
	}
	if fileData.Camera.InputFormat != "" {
		cfg.Camera.InputFormat = fileData.Camera.InputFormat
	}
	if fileData.Camera.Device != "" {
		cfg.Camera.Device = fileData.Camera.Device
	}
	if fileData.Camera.Width > 0 && fileData.Camera.Height > 0 {
		cfg.Camera.Width = fileData.Camera.Width
		cfg.Camera.Height = fileData.Camera.Height
	}

	cfg.Detector.CascadePath = strings.TrimSpace(fileData.Detector.CascadePath)
	if fileData.Detector.MinSize > 0 {
		cfg.Detector.MinSize = fileData.Detector.MinSize
	}
	if fileData.Detector.MinQuality > 0 {
		cfg.Detector.MinQuality = fileData.Detector.MinQuality
	}

	switch strings.ToLower(fileData.Logging.Level) {
	case "debug", "info", "warn", "error":
		cfg.Logging.Level = strings.ToLower(fileData.Logging.Level)
	}
	cfg.Logging.File = strings.TrimSpace(fileData.Logging.File)
}
