package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// LogFileName is the name of the log file created inside the log directory.
const LogFileName = "framelabel.log"

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging with persistent context attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	sink   *sink
	attrs  []slog.Attr
}

// sink is shared between a root logger and all of its children so that
// closing any of them closes the file exactly once.
type sink struct {
	mu     sync.Mutex
	writer *RotatingWriter
}

// NewLogger creates a Logger that writes JSON lines to {logDir}/framelabel.log,
// rotating the file according to rotation.
//
// The level parameter is one of DEBUG, INFO, WARN or ERROR (case-insensitive);
// unrecognized values fall back to INFO.
func NewLogger(logDir string, level string, rotation RotationConfig) (*Logger, error) {
	if logDir == "" {
		return nil, fmt.Errorf("log directory must not be empty")
	}

	rw, err := NewRotatingWriter(filepath.Join(logDir, LogFileName), rotation)
	if err != nil {
		return nil, err
	}

	return newLogger(rw, parseLevel(level), &sink{writer: rw}), nil
}

// NewWriterLogger creates a Logger that writes JSON lines to w. It does not own
// w; Close is a no-op.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, parseLevel(level), nil)
}

func newLogger(w io.Writer, level slog.Level, s *sink) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{
		logger: slog.New(handler),
		sink:   s,
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch ParseLevel(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSession returns a child Logger tagged with the labeling run ID.
func (l *Logger) WithSession(runID string) *Logger {
	return l.withAttr(slog.String("run_id", runID))
}

// WithBatch returns a child Logger tagged with the batch name.
func (l *Logger) WithBatch(batch string) *Logger {
	return l.withAttr(slog.String("batch", batch))
}

// WithSubject returns a child Logger tagged with the subject name.
func (l *Logger) WithSubject(subject string) *Logger {
	return l.withAttr(slog.String("subject", subject))
}

// With returns a child Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments; non-string keys are skipped.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return l.withAttr(attrs...)
}

func (l *Logger) withAttr(attrs ...slog.Attr) *Logger {
	merged := make([]slog.Attr, 0, len(l.attrs)+len(attrs))
	merged = append(merged, l.attrs...)
	merged = append(merged, attrs...)

	return &Logger{
		logger: l.logger,
		sink:   l.sink,
		attrs:  merged,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	all := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		all = append(all, attr.Key, attr.Value.Any())
	}
	all = append(all, args...)

	l.logger.Log(context.Background(), level, msg, all...)
}

// Close flushes and closes the log file. Safe to call more than once and on
// loggers that do not own a file.
func (l *Logger) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.writer == nil {
		return nil
	}
	err := l.sink.writer.Close()
	l.sink.writer = nil
	return err
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return newLogger(io.Discard, slog.LevelError+1, nil)
}

// ParseLevel normalizes a user-provided level string to one of the Level
// constants. Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
