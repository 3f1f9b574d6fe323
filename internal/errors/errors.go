// Package errors provides centralized error definitions and error handling utilities
// for framelabel. It defines the labeling error taxonomy as sentinel errors, typed
// errors that carry context (paths, file names, row keys), and classification helpers
// used by the presentation layer to decide what to show the operator.
//
// # Error Types
//
// Domain-specific errors represent failures of a specific subsystem:
//   - DatasetError: base folder, batch or subject directory problems
//   - FrameError: frame listing and frame-number extraction problems
//   - StoreError: persisted label table problems
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a batch, subject or row could not be found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewFrameError("cannot read frame number", errors.ErrMalformedFilename).
//	    WithFile("img-a-01.jpg").WithToken("a")
//
//	if errors.Is(err, errors.ErrMalformedFilename) { ... }
//
//	var storeErr *errors.StoreError
//	if errors.As(err, &storeErr) { ... }
//
// Every typed error wraps one of the sentinels below so callers can branch on the
// taxonomy with errors.Is regardless of how much context was attached.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Dataset-related sentinel errors
var (
	// ErrInvalidBasePath indicates the configured base folder is missing or not a directory.
	ErrInvalidBasePath = New("invalid base path")
	// ErrBatchNotFound indicates a batch name is not part of the discovered batches.
	ErrBatchNotFound = New("batch not found")
	// ErrSubjectNotFound indicates a subject name is not part of the current batch.
	ErrSubjectNotFound = New("subject not found")
)

// Frame-related sentinel errors
var (
	// ErrNoFramesInSubject indicates a subject directory contains no image frames.
	ErrNoFramesInSubject = New("no images found in subject folder")
	// ErrMalformedFilename indicates a frame number could not be extracted from a filename.
	ErrMalformedFilename = New("malformed frame filename")
)

// Store-related sentinel errors
var (
	// ErrStoreCorrupt indicates the persisted label table does not match the expected schema.
	ErrStoreCorrupt = New("label table corrupt")
	// ErrRowNotFound indicates no label row exists for a (batch, subject) key.
	ErrRowNotFound = New("label row not found")
	// ErrStoreLocked indicates another process holds the label table.
	ErrStoreLocked = New("label table is locked by another process")
	// ErrUnknownField indicates a label field outside the fixed column set.
	ErrUnknownField = New("unknown label field")
)

// General sentinel errors
var (
	// ErrNoSubjectSelected indicates an action that needs a subject ran without one.
	ErrNoSubjectSelected = New("no subject selected")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// LabelError is the base interface for all framelabel errors.
type LabelError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to show the operator.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<prefix> [k=v, ...]: message[: cause]".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// DatasetError represents errors related to the base/batch/subject folder tree.
//
// Example:
//
//	err := errors.NewDatasetError("cannot open base folder", errors.ErrInvalidBasePath).
//	    WithPath("/data/raw")
//	fmt.Println(err) // "dataset error [path=/data/raw]: cannot open base folder: invalid base path"
type DatasetError struct {
	baseError
	Path string
}

// NewDatasetError creates a new DatasetError.
func NewDatasetError(message string, cause error) *DatasetError {
	return &DatasetError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the offending directory path.
func (e *DatasetError) WithPath(path string) *DatasetError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *DatasetError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return e.format("dataset error", parts)
}

// Is checks if this error matches the target.
func (e *DatasetError) Is(target error) bool {
	if _, ok := target.(*DatasetError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// FrameError represents errors related to a subject's image frames.
//
// Example:
//
//	err := errors.NewFrameError("cannot read frame number", errors.ErrMalformedFilename).
//	    WithFile("img-x-01.jpg").WithToken("x")
type FrameError struct {
	baseError
	File  string
	Token string
}

// NewFrameError creates a new FrameError.
func NewFrameError(message string, cause error) *FrameError {
	return &FrameError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithFile adds the frame file name.
func (e *FrameError) WithFile(name string) *FrameError {
	e.File = name
	return e
}

// WithToken adds the filename token that failed to parse.
func (e *FrameError) WithToken(token string) *FrameError {
	e.Token = token
	return e
}

// Error returns the formatted error message.
func (e *FrameError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}
	if e.Token != "" {
		parts = append(parts, fmt.Sprintf("token=%q", e.Token))
	}
	return e.format("frame error", parts)
}

// Is checks if this error matches the target.
func (e *FrameError) Is(target error) bool {
	if _, ok := target.(*FrameError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StoreError represents errors related to the persisted label table.
//
// Example:
//
//	err := errors.NewStoreError("unexpected header", errors.ErrStoreCorrupt).
//	    WithPath("results.csv").WithLine(1)
type StoreError struct {
	baseError
	Path    string
	Line    int
	Batch   string
	Subject string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the table file path.
func (e *StoreError) WithPath(path string) *StoreError {
	e.Path = path
	return e
}

// WithLine adds the 1-based line number within the table file.
func (e *StoreError) WithLine(line int) *StoreError {
	e.Line = line
	return e
}

// WithKey adds the (batch, subject) row key.
func (e *StoreError) WithKey(batch, subject string) *StoreError {
	e.Batch = batch
	e.Subject = subject
	return e
}

// WithSeverity sets the error severity.
func (e *StoreError) WithSeverity(s Severity) *StoreError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}
	if e.Batch != "" || e.Subject != "" {
		parts = append(parts, fmt.Sprintf("key=%s/%s", e.Batch, e.Subject))
	}
	return e.format("store error", parts)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("subject", "S7")
//	fmt.Println(err) // "subject 'S7' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("unknown label field").WithField("field").WithValue("time dead")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to the operator.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var labelErr LabelError
	if As(err, &labelErr) {
		return labelErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement LabelError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var labelErr LabelError
	if As(err, &labelErr) {
		return labelErr.Severity()
	}

	return SeverityError
}

// userMessages maps each taxonomy sentinel to the short text shown in the UI.
var userMessages = []struct {
	sentinel error
	message  string
}{
	{ErrInvalidBasePath, "Invalid path. Please enter a valid folder path."},
	{ErrNoFramesInSubject, "No images found in the selected subject folder."},
	{ErrMalformedFilename, "Cannot read the frame number from this image's filename."},
	{ErrStoreCorrupt, "The results file is corrupt; nothing was saved."},
	{ErrRowNotFound, "No results row exists for this subject; nothing was saved."},
	{ErrStoreLocked, "The results file is in use by another labeling session."},
	{ErrNoSubjectSelected, "Select a subject first."},
}

// UserMessage returns the operator-facing text for err. Taxonomy errors map to a
// fixed sentence; other user-facing errors use their own message; anything else
// collapses to a generic sentence.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if Is(err, m.sentinel) {
			return m.message
		}
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "An internal error occurred: " + err.Error()
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
