// Package projectconfig provides the ProjectConfig struct and loader for
// .oge.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oge-trainer/oge/internal/hooks"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".oge.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultCatalog      = "tasks.json"
	DefaultDownloadsDir = "."
	DefaultExportFormat = "wav"

	DefaultFFmpeg     = "ffmpeg"
	DefaultSampleRate = 44100
	DefaultChannels   = 1

	DefaultPlayer = "ffplay"

	DefaultSessionLogDir = ".oge-sessions"
)

// Environment variables that override file values.
const (
	EnvCatalog      = "OGE_CATALOG"
	EnvExportFormat = "OGE_EXPORT_FORMAT"
	EnvDownloadsDir = "OGE_DOWNLOADS_DIR"
	EnvFFmpeg       = "OGE_FFMPEG"
)

// ExportConfig selects how answers are written on download.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"`
	// Options are passed to the exporter, e.g. {bitrate: 128} for mp3.
	Options map[string]any `yaml:"options,omitempty"`
}

// DeviceConfig describes the ffmpeg microphone capture. Empty input fields
// select the platform default.
type DeviceConfig struct {
	FFmpeg      string `yaml:"ffmpeg,omitempty"`
	InputFormat string `yaml:"input_format,omitempty"`
	Input       string `yaml:"input,omitempty"`
	SampleRate  int    `yaml:"sample_rate,omitempty"`
	Channels    int    `yaml:"channels,omitempty"`
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	Binary string `yaml:"binary,omitempty"`
}

// SessionLogConfig holds exam event log settings.
type SessionLogConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .oge.yaml.
type ProjectConfig struct {
	Catalog      string            `yaml:"catalog,omitempty"`
	DownloadsDir string            `yaml:"downloads_dir,omitempty"`
	Export       ExportConfig      `yaml:"export,omitempty"`
	Device       DeviceConfig      `yaml:"device,omitempty"`
	Player       PlayerConfig      `yaml:"player,omitempty"`
	SessionLog   SessionLogConfig  `yaml:"session_log,omitempty"`
	Hooks        hooks.HooksConfig `yaml:"hooks,omitempty"`

	// Path is the file the values were read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Catalog:      DefaultCatalog,
		DownloadsDir: DefaultDownloadsDir,
		Export: ExportConfig{
			Format: DefaultExportFormat,
		},
		Device: DeviceConfig{
			FFmpeg:     DefaultFFmpeg,
			SampleRate: DefaultSampleRate,
			Channels:   DefaultChannels,
		},
		Player: PlayerConfig{
			Binary: DefaultPlayer,
		},
		SessionLog: SessionLogConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultSessionLogDir,
		},
	}
}

// Load finds .oge.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults and applies OGE_*
// environment overrides. If no config file is found, returns defaults
// (plus environment) with a nil error. Real I/O errors are returned.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if err == nil {
		var fileCfg ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		mergeConfig(cfg, &fileCfg)
		cfg.Path = path
		cfg.resolveRelative(filepath.Dir(path))
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overlays OGE_* variables found by lookup.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCatalog); ok && v != "" {
		c.Catalog = v
	}
	if v, ok := lookup(EnvExportFormat); ok && v != "" {
		c.Export.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvDownloadsDir); ok && v != "" {
		c.DownloadsDir = v
	}
	if v, ok := lookup(EnvFFmpeg); ok && v != "" {
		c.Device.FFmpeg = v
	}
}

// SessionLogEnabled reports whether the exam event log is on.
func (c *ProjectConfig) SessionLogEnabled() bool {
	return c.SessionLog.Enabled != nil && *c.SessionLog.Enabled
}

// resolveRelative makes local paths in the file relative to the directory
// holding it, so running from a subdirectory finds the same files.
func (c *ProjectConfig) resolveRelative(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	if !strings.Contains(c.Catalog, "://") {
		c.Catalog = abs(c.Catalog)
	}
	c.DownloadsDir = abs(c.DownloadsDir)
	c.SessionLog.Dir = abs(c.SessionLog.Dir)
}

// findConfigFile walks up from dir looking for .oge.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Catalog != "" {
		dst.Catalog = src.Catalog
	}
	if src.DownloadsDir != "" {
		dst.DownloadsDir = src.DownloadsDir
	}

	// Export
	if src.Export.Format != "" {
		dst.Export.Format = strings.ToLower(src.Export.Format)
	}
	if src.Export.Options != nil {
		dst.Export.Options = src.Export.Options
	}

	// Device
	if src.Device.FFmpeg != "" {
		dst.Device.FFmpeg = src.Device.FFmpeg
	}
	if src.Device.InputFormat != "" {
		dst.Device.InputFormat = src.Device.InputFormat
	}
	if src.Device.Input != "" {
		dst.Device.Input = src.Device.Input
	}
	if src.Device.SampleRate != 0 {
		dst.Device.SampleRate = src.Device.SampleRate
	}
	if src.Device.Channels != 0 {
		dst.Device.Channels = src.Device.Channels
	}

	if src.Player.Binary != "" {
		dst.Player.Binary = src.Player.Binary
	}

	// Session log
	if src.SessionLog.Enabled != nil {
		dst.SessionLog.Enabled = src.SessionLog.Enabled
	}
	if src.SessionLog.Dir != "" {
		dst.SessionLog.Dir = src.SessionLog.Dir
	}

	dst.Hooks = src.Hooks
}

func boolPtr(b bool) *bool {
	return &b
}
