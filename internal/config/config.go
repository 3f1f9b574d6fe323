package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete framelabel configuration
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths" yaml:"paths"`
	Frames   FramesConfig   `mapstructure:"frames" yaml:"frames"`
	Playback PlaybackConfig `mapstructure:"playback" yaml:"playback"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// PathsConfig controls where framelabel reads images and writes results
type PathsConfig struct {
	// BaseDir is the folder containing batch sub-folders (default: "data_raw")
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
	// ResultsFile is the CSV label table (default: "results.csv")
	ResultsFile string `mapstructure:"results_file" yaml:"results_file"`
	// LogDir is where framelabel.log is written.
	// If empty, defaults to "<config dir>/logs". Supports ~ for home directory expansion.
	LogDir string `mapstructure:"log_dir" yaml:"log_dir"`
}

// FramesConfig controls which files in a subject folder count as frames
type FramesConfig struct {
	// Extensions lists accepted file extensions, matched case-insensitively (default: [".jpg"])
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// PlaybackConfig controls timed behavior of the labeling session
type PlaybackConfig struct {
	// AutoAdvanceIntervalMs is the auto-advance step period (default: 200)
	AutoAdvanceIntervalMs int `mapstructure:"auto_advance_interval_ms" yaml:"auto_advance_interval_ms"`
	// FeedbackTimeoutMs is how long transient feedback stays on screen (default: 1000)
	FeedbackTimeoutMs int `mapstructure:"feedback_timeout_ms" yaml:"feedback_timeout_ms"`
}

// DisplayConfig controls frame presentation
type DisplayConfig struct {
	// Grayscale starts the session with grayscale contrast stretching enabled
	Grayscale bool `mapstructure:"grayscale" yaml:"grayscale"`
	// Preview renders the current frame in the terminal (default: true)
	Preview bool `mapstructure:"preview" yaml:"preview"`
	// MaxPreviewWidth caps the preview width in terminal cells (default: 100)
	MaxPreviewWidth int `mapstructure:"max_preview_width" yaml:"max_preview_width"`
}

// WatchConfig controls dataset change detection
type WatchConfig struct {
	// Enabled refreshes batch, subject and frame listings when files change (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// ResolveLogDir returns the directory for the log file.
// An empty LogDir resolves to <config dir>/logs; a leading ~ expands to the home directory.
func (p *PathsConfig) ResolveLogDir() string {
	if p.LogDir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(p.LogDir)
}

// ResolveBaseDir returns BaseDir with ~ expanded.
func (p *PathsConfig) ResolveBaseDir() string {
	return expandHome(p.BaseDir)
}

// ResolveResultsFile returns ResultsFile with ~ expanded.
func (p *PathsConfig) ResolveResultsFile() string {
	return expandHome(p.ResultsFile)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// AutoAdvanceInterval returns the auto-advance period as a time.Duration
func (c *PlaybackConfig) AutoAdvanceInterval() time.Duration {
	return time.Duration(c.AutoAdvanceIntervalMs) * time.Millisecond
}

// FeedbackTimeout returns the transient feedback lifetime as a time.Duration
func (c *PlaybackConfig) FeedbackTimeout() time.Duration {
	return time.Duration(c.FeedbackTimeoutMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			BaseDir:     "data_raw",
			ResultsFile: "results.csv",
			LogDir:      "", // Empty means use default: <config dir>/logs
		},
		Frames: FramesConfig{
			Extensions: []string{".jpg"},
		},
		Playback: PlaybackConfig{
			AutoAdvanceIntervalMs: 200,
			FeedbackTimeoutMs:     1000,
		},
		Display: DisplayConfig{
			Grayscale:       false,
			Preview:         true,
			MaxPreviewWidth: 100,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Paths defaults
	viper.SetDefault("paths.base_dir", defaults.Paths.BaseDir)
	viper.SetDefault("paths.results_file", defaults.Paths.ResultsFile)
	viper.SetDefault("paths.log_dir", defaults.Paths.LogDir)

	// Frames defaults
	viper.SetDefault("frames.extensions", defaults.Frames.Extensions)

	// Playback defaults
	viper.SetDefault("playback.auto_advance_interval_ms", defaults.Playback.AutoAdvanceIntervalMs)
	viper.SetDefault("playback.feedback_timeout_ms", defaults.Playback.FeedbackTimeoutMs)

	// Display defaults
	viper.SetDefault("display.grayscale", defaults.Display.Grayscale)
	viper.SetDefault("display.preview", defaults.Display.Preview)
	viper.SetDefault("display.max_preview_width", defaults.Display.MaxPreviewWidth)

	// Watch defaults
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "framelabel")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".framelabel"
	}
	return filepath.Join(home, ".config", "framelabel")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
