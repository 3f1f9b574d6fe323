package labeling

import (
	"strconv"

	"github.com/Iron-Ham/framelabel/internal/navigation"
)

// Status texts for the selected subject.
const (
	StatusLabeled    = "already labeled"
	StatusNotLabeled = "not labeled yet"
)

// SubjectItem is one entry of the subject list.
type SubjectItem struct {
	Name    string
	Labeled bool
}

// View is a snapshot of everything the presentation renders.
type View struct {
	BaseFolder string
	State      navigation.State

	Batches  []string
	Batch    string
	Subjects []SubjectItem
	Subject  string

	// FramePath is the image to render, or "" when there is none.
	FramePath  string
	FrameName  string
	FrameIndex int
	FrameCount int
	// FrameOrdinal is the 1-based position shown to the operator.
	FrameOrdinal string

	Labeled     bool
	Status      string
	Feedback    Feedback
	Error       string
	Grayscale   bool
	AutoAdvance AutoAdvanceHandle
}

// View builds the current view model.
func (s *Session) View() View {
	v := View{
		BaseFolder:   s.base,
		State:        s.nav.State(),
		Batches:      s.Batches(),
		Batch:        s.nav.Batch(),
		Subject:      s.nav.Subject(),
		FrameIndex:   s.nav.FrameIndex(),
		FrameCount:   s.nav.FrameCount(),
		FrameOrdinal: "Image Number: N/A",
		Feedback:     s.feedback,
		Error:        s.errText,
		Grayscale:    s.grayscale,
		AutoAdvance:  s.autoHandle,
	}

	if v.State != navigation.Idle {
		for _, name := range s.nav.Subjects() {
			v.Subjects = append(v.Subjects, SubjectItem{
				Name:    name,
				Labeled: s.store.IsLabeled(v.Batch, name),
			})
		}
	}

	if v.State == navigation.SubjectSelected {
		v.Labeled = s.store.IsLabeled(v.Batch, v.Subject)
		v.Status = StatusNotLabeled
		if v.Labeled {
			v.Status = StatusLabeled
		}
		if f, err := s.CurrentFrame(); err == nil {
			v.FramePath = f.Path
			v.FrameName = f.Name
			v.FrameOrdinal = "Image Number: " + strconv.Itoa(f.Index+1)
		}
	}
	return v
}
