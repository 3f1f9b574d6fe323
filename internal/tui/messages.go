package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/framelabel/internal/dataset"
	"github.com/Iron-Ham/framelabel/internal/labeling"
)

// autoAdvanceMsg asks the session to take one auto-advance step of a run.
type autoAdvanceMsg struct {
	handle labeling.AutoAdvanceHandle
}

// feedbackExpiredMsg clears a transient feedback message.
type feedbackExpiredMsg struct {
	id uint64
}

// datasetChangedMsg reports that files below the base folder changed.
type datasetChangedMsg struct {
	watcher *dataset.Watcher
}

// waitForChange blocks until w reports a change. A closed watcher yields no
// message.
func waitForChange(w *dataset.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return datasetChangedMsg{watcher: w}
	}
}
