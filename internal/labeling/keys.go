package labeling

import (
	"github.com/Iron-Ham/framelabel/internal/labels"
)

// Key is an operator key press, independent of how input is delivered.
type Key int

// Keys understood by a Session. Any other key is KeyOther.
const (
	KeyOther Key = iota
	KeyUp
	KeyLeft
	KeyRight
	KeyEnter
	KeyX
	KeyNextSubject
	KeyPrevSubject
	KeyGrayscale
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyX:
		return "x"
	case KeyNextSubject:
		return "n"
	case KeyPrevSubject:
		return "p"
	case KeyGrayscale:
		return "g"
	default:
		return "other"
	}
}

// Action is what a key does.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionStartAutoAdvance
	ActionCommitMetamorphosis
	ActionCommitAliveAndAdvance
	ActionStepForward
	ActionStepBackward
	ActionNextSubject
	ActionPrevSubject
	ActionToggleGrayscale
)

// Binding pairs a key with its action.
type Binding struct {
	Key         Key
	Action      Action
	Description string
}

// bindings is the fixed key map.
var bindings = []Binding{
	{KeyUp, ActionStartAutoAdvance, "Auto-advance frames"},
	{KeyX, ActionCommitMetamorphosis, "Save time of metamorphosis"},
	{KeyEnter, ActionCommitAliveAndAdvance, "Save time alive, next subject (needs a frame)"},
	{KeyRight, ActionStepForward, "Next frame"},
	{KeyLeft, ActionStepBackward, "Previous frame"},
	{KeyNextSubject, ActionNextSubject, "Next subject without saving (skips empty subjects)"},
	{KeyPrevSubject, ActionPrevSubject, "Previous subject"},
	{KeyGrayscale, ActionToggleGrayscale, "Toggle grayscale"},
}

// Bindings returns the key map in display order.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// ActionFor returns the action bound to k, or ActionNone.
func ActionFor(k Key) Action {
	for _, b := range bindings {
		if b.Key == k {
			return b.Action
		}
	}
	return ActionNone
}

// HandleKey applies key k. Every key stops auto-advance before its own
// action runs, so Up restarts auto-advance from the current frame.
func (s *Session) HandleKey(k Key) error {
	s.cancelAutoAdvance()

	switch ActionFor(k) {
	case ActionStartAutoAdvance:
		s.StartAutoAdvance()
	case ActionCommitMetamorphosis:
		return s.CommitLabel(labels.FieldMetamorphosis)
	case ActionCommitAliveAndAdvance:
		return s.CommitAndAdvance()
	case ActionStepForward:
		s.StepFrame(1)
	case ActionStepBackward:
		s.StepFrame(-1)
	case ActionNextSubject:
		_, err := s.NextSubject()
		return err
	case ActionPrevSubject:
		_, err := s.PrevSubject()
		return err
	case ActionToggleGrayscale:
		s.ToggleGrayscale()
	}
	return nil
}
