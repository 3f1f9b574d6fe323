// Package navigation tracks where the operator is in the dataset: the current
// batch, subject and frame, and whether frames advance automatically.
//
// Navigator is pure state; it performs no I/O. Callers list batches,
// subjects and frames and pass the results in.
package navigation

import (
	"slices"

	"github.com/Iron-Ham/framelabel/internal/errors"
)

// State is the navigation phase.
type State int

const (
	// Idle means no batch is selected.
	Idle State = iota
	// BatchSelected means a batch is selected but no subject is.
	BatchSelected
	// SubjectSelected means a subject is selected and frames can be stepped.
	SubjectSelected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BatchSelected:
		return "batch_selected"
	case SubjectSelected:
		return "subject_selected"
	default:
		return "unknown"
	}
}

// Navigator is the navigation state machine.
type Navigator struct {
	state State

	batch      string
	subjects   []string
	subjectIdx int

	frameIndex  int
	frameCount  int
	autoAdvance bool
}

// New returns a Navigator in the Idle state.
func New() *Navigator {
	return &Navigator{subjectIdx: -1}
}

// State returns the current phase.
func (n *Navigator) State() State { return n.state }

// Batch returns the selected batch, or "" when Idle.
func (n *Navigator) Batch() string { return n.batch }

// Subjects returns the subjects of the selected batch in discovery order.
func (n *Navigator) Subjects() []string { return slices.Clone(n.subjects) }

// Subject returns the selected subject, or "" when none is selected.
func (n *Navigator) Subject() string {
	if n.state != SubjectSelected {
		return ""
	}
	return n.subjects[n.subjectIdx]
}

// SubjectIndex returns the position of the selected subject in Subjects, or -1.
func (n *Navigator) SubjectIndex() int {
	if n.state != SubjectSelected {
		return -1
	}
	return n.subjectIdx
}

// FrameIndex returns the 0-based index of the current frame.
func (n *Navigator) FrameIndex() int { return n.frameIndex }

// FrameCount returns the number of frames of the selected subject.
func (n *Navigator) FrameCount() int { return n.frameCount }

// HasFrames reports whether a subject with at least one frame is selected.
func (n *Navigator) HasFrames() bool {
	return n.state == SubjectSelected && n.frameCount > 0
}

// AtLastFrame reports whether the current frame is the last one.
func (n *Navigator) AtLastFrame() bool {
	return n.HasFrames() && n.frameIndex == n.frameCount-1
}

// AutoAdvance reports whether frames are advancing automatically.
func (n *Navigator) AutoAdvance() bool { return n.autoAdvance }

// Reset returns to Idle.
func (n *Navigator) Reset() {
	*n = Navigator{subjectIdx: -1}
}

// SelectBatch makes batch current with the given subjects and clears the
// subject selection. It returns the first subject, if any, for the caller to
// select next.
func (n *Navigator) SelectBatch(batch string, subjects []string) (first string, ok bool) {
	n.state = BatchSelected
	n.batch = batch
	n.subjects = slices.Clone(subjects)
	n.subjectIdx = -1
	n.frameIndex = 0
	n.frameCount = 0
	n.autoAdvance = false

	if len(n.subjects) == 0 {
		return "", false
	}
	return n.subjects[0], true
}

// SelectSubject makes subject current with frameCount frames. The frame index
// resets to 0 and auto-advance stops.
func (n *Navigator) SelectSubject(subject string, frameCount int) error {
	if n.state == Idle {
		return errors.NewNotFoundError("subject", subject).WithCause(errors.ErrSubjectNotFound)
	}
	i := slices.Index(n.subjects, subject)
	if i < 0 {
		return errors.NewNotFoundError("subject", subject).WithCause(errors.ErrSubjectNotFound)
	}

	n.state = SubjectSelected
	n.subjectIdx = i
	n.frameIndex = 0
	n.frameCount = max(frameCount, 0)
	n.autoAdvance = false
	return nil
}

// StepFrame moves delta frames, clamped to the sequence. It reports whether
// the index changed; stepping past either end is a no-op.
func (n *Navigator) StepFrame(delta int) bool {
	if !n.HasFrames() {
		return false
	}
	next := min(max(n.frameIndex+delta, 0), n.frameCount-1)
	if next == n.frameIndex {
		return false
	}
	n.frameIndex = next
	return true
}

// StartAutoAdvance turns auto-advance on. It reports false, leaving it off,
// when there is no frame to advance to.
func (n *Navigator) StartAutoAdvance() bool {
	if !n.HasFrames() || n.AtLastFrame() {
		n.autoAdvance = false
		return false
	}
	n.autoAdvance = true
	return true
}

// StopAutoAdvance turns auto-advance off.
func (n *Navigator) StopAutoAdvance() {
	n.autoAdvance = false
}

// AdvanceTick performs one auto-advance step. Auto-advance stops itself on
// reaching the last frame. It reports whether the index changed.
func (n *Navigator) AdvanceTick() bool {
	if !n.autoAdvance {
		return false
	}
	moved := n.StepFrame(1)
	if !moved || n.AtLastFrame() {
		n.autoAdvance = false
	}
	return moved
}

// NextSubject returns the subject after the current one in discovery order.
// It reports false when the current subject is the last one.
func (n *Navigator) NextSubject() (string, bool) {
	return n.neighbour(1)
}

// PrevSubject returns the subject before the current one.
func (n *Navigator) PrevSubject() (string, bool) {
	return n.neighbour(-1)
}

func (n *Navigator) neighbour(delta int) (string, bool) {
	if n.state != SubjectSelected {
		return "", false
	}
	i := n.subjectIdx + delta
	if i < 0 || i >= len(n.subjects) {
		return "", false
	}
	return n.subjects[i], true
}

// Refresh applies a rescan of the selected batch. The subject stays selected
// if it still exists and the frame index is clamped to the new frame count.
// It reports false when the selected subject disappeared, leaving the batch
// selected without a subject.
func (n *Navigator) Refresh(subjects []string, frameCount int) bool {
	if n.state == Idle {
		return true
	}

	current := n.Subject()
	n.subjects = slices.Clone(subjects)
	if n.state != SubjectSelected {
		return true
	}

	i := slices.Index(n.subjects, current)
	if i < 0 {
		n.state = BatchSelected
		n.subjectIdx = -1
		n.frameIndex = 0
		n.frameCount = 0
		n.autoAdvance = false
		return false
	}

	n.subjectIdx = i
	n.frameCount = max(frameCount, 0)
	n.frameIndex = min(n.frameIndex, max(n.frameCount-1, 0))
	if n.AtLastFrame() || n.frameCount == 0 {
		n.autoAdvance = false
	}
	return true
}
