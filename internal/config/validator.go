package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "playback.auto_advance_interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateFrames()...)
	errors = append(errors, c.validatePlayback()...)
	errors = append(errors, c.validateDisplay()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.base_dir",
			Value:   c.Paths.BaseDir,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(c.Paths.ResultsFile) == "" {
		errors = append(errors, ValidationError{
			Field:   "paths.results_file",
			Value:   c.Paths.ResultsFile,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateFrames() []ValidationError {
	var errors []ValidationError

	if len(c.Frames.Extensions) == 0 {
		errors = append(errors, ValidationError{
			Field:   "frames.extensions",
			Value:   c.Frames.Extensions,
			Message: "must list at least one extension",
		})
		return errors
	}

	for i, ext := range c.Frames.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext[1:], "./\\") {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("frames.extensions[%d]", i),
				Value:   ext,
				Message: "must be a single extension with a leading dot, e.g. \".jpg\"",
			})
		}
	}

	return errors
}

func (c *Config) validatePlayback() []ValidationError {
	var errors []ValidationError

	if c.Playback.AutoAdvanceIntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "playback.auto_advance_interval_ms",
			Value:   c.Playback.AutoAdvanceIntervalMs,
			Message: "must be positive",
		})
	}
	if c.Playback.FeedbackTimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "playback.feedback_timeout_ms",
			Value:   c.Playback.FeedbackTimeoutMs,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateDisplay() []ValidationError {
	var errors []ValidationError

	if c.Display.MaxPreviewWidth < 0 {
		errors = append(errors, ValidationError{
			Field:   "display.max_preview_width",
			Value:   c.Display.MaxPreviewWidth,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
