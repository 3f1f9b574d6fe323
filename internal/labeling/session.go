// Package labeling orchestrates a labeling session: it turns operator actions
// into navigation changes, label commits and a view model for rendering.
package labeling

import (
	"slices"

	"github.com/Iron-Ham/framelabel/internal/dataset"
	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/frames"
	"github.com/Iron-Ham/framelabel/internal/labels"
	"github.com/Iron-Ham/framelabel/internal/logging"
	"github.com/Iron-Ham/framelabel/internal/navigation"
)

// Feedback texts.
const (
	FeedbackMetamorphosisSaved = "Time of metamorphosis saved"
	FeedbackTimeAliveSaved     = "Time alive saved"
	FeedbackBatchComplete      = "BATCH COMPLETE"
)

// Store is the label table used by a Session. *labels.Store implements it.
type Store interface {
	EnsureRow(batch, subject string) error
	IsLabeled(batch, subject string) bool
	SetField(batch, subject string, field labels.Field, frame int) error
}

// Options configures a Session.
type Options struct {
	// Extensions lists the frame file extensions. Defaults to ".jpg".
	Extensions []string
	// Grayscale is the initial display mode.
	Grayscale bool
	// Logger receives session events. Defaults to a no-op logger.
	Logger *logging.Logger
}

// AutoAdvanceHandle identifies one run of auto-advance. The zero handle
// means no run.
type AutoAdvanceHandle uint64

// Feedback is a message confirming an action. Transient feedback is expected
// to be cleared by the presentation after a timeout via ClearFeedback.
type Feedback struct {
	ID        uint64
	Text      string
	Transient bool
}

// Session is a single operator's labeling session.
//
// All methods must be called from one goroutine.
type Session struct {
	store      Store
	nav        *navigation.Navigator
	extensions []string
	logger     *logging.Logger

	base    string
	batches []string
	seq     *frames.Sequence

	grayscale bool

	autoHandle AutoAdvanceHandle
	lastHandle AutoAdvanceHandle

	feedback     Feedback
	lastFeedback uint64
	errText      string
}

// NewSession creates a Session in the idle state. Call SetBaseFolder to
// discover batches and open the first one.
func NewSession(store Store, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".jpg"}
	}
	return &Session{
		store:      store,
		nav:        navigation.New(),
		extensions: slices.Clone(opts.Extensions),
		logger:     opts.Logger,
		grayscale:  opts.Grayscale,
	}
}

// BaseFolder returns the current base folder, or "" before one is set.
func (s *Session) BaseFolder() string { return s.base }

// Batches returns the batches of the base folder in discovery order.
func (s *Session) Batches() []string { return slices.Clone(s.batches) }

// Subjects returns the subjects of the selected batch in discovery order.
func (s *Session) Subjects() []string { return s.nav.Subjects() }

// State returns the navigation phase.
func (s *Session) State() navigation.State { return s.nav.State() }

// SetBaseFolder switches to a new base folder, lists its batches and selects
// the first batch and its first subject. An invalid folder leaves the session
// unchanged. A failure opening the first batch leaves the session idle on the
// new folder with the failure in the error text.
func (s *Session) SetBaseFolder(path string) error {
	base, err := dataset.ValidateBase(path)
	if err != nil {
		return s.fail(err)
	}
	batches, err := dataset.ListBatches(base)
	if err != nil {
		return s.fail(err)
	}

	s.cancelAutoAdvance()
	s.base = base
	s.batches = batches
	s.seq = nil
	s.nav.Reset()
	s.clearFeedback()
	s.errText = ""

	s.logger.Info("base folder set", "base", base, "batches", len(batches))
	if len(batches) > 0 {
		_ = s.SelectBatch(batches[0])
	}
	return nil
}

// SelectBatch makes batch current and selects its first subject, if any. If
// the first subject cannot be opened the previous selection is kept.
func (s *Session) SelectBatch(batch string) error {
	if !slices.Contains(s.batches, batch) {
		return s.fail(errors.NewNotFoundError("batch", batch).WithCause(errors.ErrBatchNotFound))
	}
	subjects, err := dataset.ListSubjects(s.base, batch)
	if err != nil {
		return s.fail(err)
	}
	var seq *frames.Sequence
	if len(subjects) > 0 {
		if seq, err = s.loadSubject(batch, subjects[0]); err != nil {
			return s.fail(err)
		}
	}

	s.cancelAutoAdvance()
	s.seq = nil
	s.clearFeedback()
	s.errText = ""
	first, ok := s.nav.SelectBatch(batch, subjects)
	s.logger.Info("batch selected", "batch", batch, "subjects", len(subjects))
	if !ok {
		return nil
	}
	return s.enterSubject(first, seq)
}

// SelectSubject makes subject current, resets the frame index and ensures the
// subject has a label row. A subject without frames is selected but reported
// through the error text.
func (s *Session) SelectSubject(subject string) error {
	if s.nav.State() == navigation.Idle {
		return s.fail(errors.NewNotFoundError("subject", subject).WithCause(errors.ErrSubjectNotFound))
	}
	if !slices.Contains(s.nav.Subjects(), subject) {
		return s.fail(errors.NewNotFoundError("subject", subject).WithCause(errors.ErrSubjectNotFound))
	}

	seq, err := s.loadSubject(s.nav.Batch(), subject)
	if err != nil {
		return s.fail(err)
	}
	return s.enterSubject(subject, seq)
}

// loadSubject lists the frames of subject and ensures its label row.
func (s *Session) loadSubject(batch, subject string) (*frames.Sequence, error) {
	seq, err := frames.List(dataset.SubjectDir(s.base, batch, subject), s.extensions)
	if err != nil {
		return nil, err
	}
	if err := s.store.EnsureRow(batch, subject); err != nil {
		return nil, err
	}
	return seq, nil
}

func (s *Session) enterSubject(subject string, seq *frames.Sequence) error {
	s.cancelAutoAdvance()
	if err := s.nav.SelectSubject(subject, seq.Len()); err != nil {
		return s.fail(err)
	}
	s.seq = seq
	if !s.feedback.Transient {
		s.clearFeedback()
	}

	batch := s.nav.Batch()
	log := s.logger.WithBatch(batch).WithSubject(subject)
	log.Info("subject selected", "frames", seq.Len(), "labeled", s.store.IsLabeled(batch, subject))
	for _, err := range seq.Malformed() {
		log.Warn("malformed frame name", "error", err.Error())
	}

	if seq.Empty() {
		s.errText = errors.UserMessage(errors.ErrNoFramesInSubject)
		return nil
	}
	s.errText = ""
	return nil
}

// StepFrame moves delta frames, clamped to the sequence. Auto-advance stops.
// It reports whether the frame changed.
func (s *Session) StepFrame(delta int) bool {
	s.cancelAutoAdvance()
	moved := s.nav.StepFrame(delta)
	if moved {
		s.logger.Debug("frame stepped", "frame_index", s.nav.FrameIndex())
	}
	return moved
}

// StartAutoAdvance starts a new auto-advance run from the current frame,
// replacing any run in progress. It reports false, starting nothing, when the
// current frame is the last one or there are no frames.
func (s *Session) StartAutoAdvance() (AutoAdvanceHandle, bool) {
	s.cancelAutoAdvance()
	if !s.nav.StartAutoAdvance() {
		return 0, false
	}
	s.lastHandle++
	s.autoHandle = s.lastHandle
	s.logger.Debug("auto-advance started", "frame_index", s.nav.FrameIndex())
	return s.autoHandle, true
}

// CancelAutoAdvance stops the run identified by h. Cancelling a finished,
// replaced or zero handle does nothing.
func (s *Session) CancelAutoAdvance(h AutoAdvanceHandle) {
	if h == 0 || h != s.autoHandle {
		return
	}
	s.cancelAutoAdvance()
}

// AutoAdvance returns the handle of the active run, or 0.
func (s *Session) AutoAdvance() AutoAdvanceHandle { return s.autoHandle }

// AutoAdvanceTick performs one step of run h and reports whether the run
// continues. Ticks for a run that is no longer active are ignored.
func (s *Session) AutoAdvanceTick(h AutoAdvanceHandle) bool {
	if h == 0 || h != s.autoHandle {
		return false
	}
	s.nav.AdvanceTick()
	if !s.nav.AutoAdvance() {
		s.autoHandle = 0
		s.logger.Debug("auto-advance finished", "frame_index", s.nav.FrameIndex())
		return false
	}
	return true
}

func (s *Session) cancelAutoAdvance() {
	s.nav.StopAutoAdvance()
	s.autoHandle = 0
}

// CurrentFrame returns the frame on display.
func (s *Session) CurrentFrame() (frames.Frame, error) {
	if s.nav.State() != navigation.SubjectSelected {
		return frames.Frame{}, errors.ErrNoSubjectSelected
	}
	f, ok := s.seq.At(s.nav.FrameIndex())
	if !ok {
		return frames.Frame{}, errors.NewDatasetError("subject has no frames", errors.ErrNoFramesInSubject).
			WithPath(s.seq.Dir())
	}
	return f, nil
}

// DisplayFrame returns the frame to render and records any failure in the
// error text.
func (s *Session) DisplayFrame() (frames.Frame, error) {
	f, err := s.CurrentFrame()
	if err != nil {
		return frames.Frame{}, s.fail(err)
	}
	return f, nil
}

// CommitLabel records the current frame's number in field of the current
// subject's row. Auto-advance stops first. A failed commit changes nothing.
func (s *Session) CommitLabel(field labels.Field) error {
	s.cancelAutoAdvance()

	f, err := s.CurrentFrame()
	if err != nil {
		return s.fail(err)
	}
	number, err := f.Number()
	if err != nil {
		return s.fail(err)
	}

	batch, subject := s.nav.Batch(), s.nav.Subject()
	if err := s.store.SetField(batch, subject, field, number); err != nil {
		return s.fail(err)
	}

	text := FeedbackTimeAliveSaved
	if field == labels.FieldMetamorphosis {
		text = FeedbackMetamorphosisSaved
	}
	s.setFeedback(text, true)
	s.errText = ""

	s.logger.WithBatch(batch).WithSubject(subject).Info("label committed",
		"field", string(field),
		"frame_index", f.Index,
		"frame_number", number,
		"file", f.Name,
	)
	return nil
}

// AdvanceToNextSubject selects the next subject in discovery order. On the
// last subject it reports batch completion and stays put.
func (s *Session) AdvanceToNextSubject() error {
	if s.nav.State() != navigation.SubjectSelected {
		return s.fail(errors.ErrNoSubjectSelected)
	}
	next, ok := s.nav.NextSubject()
	if !ok {
		s.cancelAutoAdvance()
		s.setFeedback(FeedbackBatchComplete, false)
		s.logger.WithBatch(s.nav.Batch()).Info("batch complete")
		return nil
	}
	return s.SelectSubject(next)
}

// CommitAndAdvance records time alive at the current frame and moves to the
// next subject. A failed commit does not advance.
func (s *Session) CommitAndAdvance() error {
	if err := s.CommitLabel(labels.FieldTimeAlive); err != nil {
		return err
	}
	return s.AdvanceToNextSubject()
}

// NextSubject selects the next subject without committing. It reports false
// on the last subject.
func (s *Session) NextSubject() (bool, error) {
	s.cancelAutoAdvance()
	next, ok := s.nav.NextSubject()
	if !ok {
		return false, nil
	}
	return true, s.SelectSubject(next)
}

// PrevSubject selects the previous subject. It reports false on the first
// subject.
func (s *Session) PrevSubject() (bool, error) {
	s.cancelAutoAdvance()
	prev, ok := s.nav.PrevSubject()
	if !ok {
		return false, nil
	}
	return true, s.SelectSubject(prev)
}

// ToggleGrayscale flips the grayscale display mode and returns the new mode.
func (s *Session) ToggleGrayscale() bool {
	s.grayscale = !s.grayscale
	s.logger.Debug("grayscale toggled", "grayscale", s.grayscale)
	return s.grayscale
}

// Grayscale reports whether frames are displayed in grayscale.
func (s *Session) Grayscale() bool { return s.grayscale }

// IsLabeled reports whether subject of the selected batch has time alive set.
func (s *Session) IsLabeled(subject string) bool {
	if s.nav.State() == navigation.Idle {
		return false
	}
	return s.store.IsLabeled(s.nav.Batch(), subject)
}

// Rescan re-reads batches, subjects and frames from disk, keeping the current
// selection where it still exists.
func (s *Session) Rescan() error {
	if s.base == "" {
		return nil
	}
	batches, err := dataset.ListBatches(s.base)
	if err != nil {
		return s.fail(err)
	}
	s.batches = batches

	if s.nav.State() == navigation.Idle {
		return nil
	}
	batch := s.nav.Batch()
	if !slices.Contains(batches, batch) {
		s.cancelAutoAdvance()
		s.seq = nil
		s.nav.Reset()
		s.logger.Warn("selected batch disappeared", "batch", batch)
		return nil
	}

	subjects, err := dataset.ListSubjects(s.base, batch)
	if err != nil {
		return s.fail(err)
	}

	var seq *frames.Sequence
	if subject := s.nav.Subject(); subject != "" && slices.Contains(subjects, subject) {
		seq, err = frames.List(dataset.SubjectDir(s.base, batch, subject), s.extensions)
		if err != nil {
			return s.fail(err)
		}
	}

	if !s.nav.Refresh(subjects, seq.Len()) {
		s.cancelAutoAdvance()
		s.seq = nil
		s.logger.Warn("selected subject disappeared", "batch", batch)
		return nil
	}
	if seq != nil {
		s.seq = seq
	}
	if !s.nav.AutoAdvance() {
		s.autoHandle = 0
	}
	return nil
}

// Feedback returns the current feedback message.
func (s *Session) Feedback() Feedback { return s.feedback }

// ClearFeedback clears transient feedback id. It reports whether anything was
// cleared; newer or persistent feedback is kept.
func (s *Session) ClearFeedback(id uint64) bool {
	if id == 0 || s.feedback.ID != id || !s.feedback.Transient {
		return false
	}
	s.clearFeedback()
	return true
}

func (s *Session) setFeedback(text string, transient bool) {
	s.lastFeedback++
	s.feedback = Feedback{ID: s.lastFeedback, Text: text, Transient: transient}
}

func (s *Session) clearFeedback() {
	s.feedback = Feedback{}
}

// ErrorText returns the operator-facing text of the last failure, or "".
func (s *Session) ErrorText() string { return s.errText }

// fail records err for display and returns it.
func (s *Session) fail(err error) error {
	s.errText = errors.UserMessage(err)
	s.logger.Warn("action failed",
		"error", err.Error(),
		"severity", errors.GetSeverity(err).String(),
		"batch", s.nav.Batch(),
		"subject", s.nav.Subject(),
	)
	return err
}
