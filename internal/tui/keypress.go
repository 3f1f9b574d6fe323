package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/framelabel/internal/labeling"
	"github.com/Iron-Ham/framelabel/internal/tui/keymap"
)

// labelingKeys maps normal mode commands to session keys.
var labelingKeys = map[keymap.Command]labeling.Key{
	keymap.CmdAutoAdvance:         labeling.KeyUp,
	keymap.CmdCommitMetamorphosis: labeling.KeyX,
	keymap.CmdCommitAlive:         labeling.KeyEnter,
	keymap.CmdNextFrame:           labeling.KeyRight,
	keymap.CmdPrevFrame:           labeling.KeyLeft,
	keymap.CmdNextSubject:         labeling.KeyNextSubject,
	keymap.CmdPrevSubject:         labeling.KeyPrevSubject,
	keymap.CmdToggleGrayscale:     labeling.KeyGrayscale,
}

// handleKeypress processes keyboard input for the current mode.
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case keymap.ModeBatchPicker, keymap.ModeSubjectPicker:
		return m.handlePickerKeypress(msg)
	case keymap.ModeBasePath:
		return m.handleBasePathKeypress(msg)
	case keymap.ModeHelp:
		return m.handleHelpKeypress(msg)
	default:
		return m.handleNormalKeypress(msg)
	}
}

func (m Model) handleNormalKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.snapshot()
	cmd, ok := m.keymap.GetBinding(msg, keymap.ModeNormal)
	if !ok {
		// Unbound keys still stop auto-advance.
		m.handleSessionKey(labeling.KeyOther)
		return m, nil
	}

	if k, ok := labelingKeys[cmd]; ok {
		m.handleSessionKey(k)
		return m, m.followUp(before)
	}

	m.session.CancelAutoAdvance(m.session.AutoAdvance())
	switch cmd {
	case keymap.CmdPickBatch:
		m.openPicker(keymap.ModeBatchPicker)
	case keymap.CmdPickSubject:
		m.openPicker(keymap.ModeSubjectPicker)
	case keymap.CmdEditBasePath:
		return m, m.openBasePath()
	case keymap.CmdToggleHelp:
		m.helpFrom = m.mode
		m.mode = keymap.ModeHelp
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleSessionKey(k labeling.Key) {
	if err := m.session.HandleKey(k); err != nil {
		m.logger.Debug("key failed", "key", k.String(), "error", err.Error())
	}
}

func (m Model) handlePickerKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.GetBinding(msg, m.mode)
	if !ok {
		return m, nil
	}

	items := m.pickerItems()
	switch cmd {
	case keymap.CmdCursorUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case keymap.CmdCursorDown:
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case keymap.CmdConfirm:
		if len(items) == 0 {
			m.mode = keymap.ModeNormal
			return m, nil
		}
		before := m.snapshot()
		choice := items[m.cursor]
		var err error
		if m.mode == keymap.ModeBatchPicker {
			err = m.session.SelectBatch(choice)
		} else {
			err = m.session.SelectSubject(choice)
		}
		if err != nil {
			m.logger.Debug("selection failed", "choice", choice, "error", err.Error())
		}
		m.mode = keymap.ModeNormal
		return m, m.followUp(before)
	case keymap.CmdCancel:
		m.mode = keymap.ModeNormal
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleBasePathKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.GetBinding(msg, keymap.ModeBasePath)
	if !ok {
		var tcmd tea.Cmd
		m.pathInput, tcmd = m.pathInput.Update(msg)
		return m, tcmd
	}

	switch cmd {
	case keymap.CmdConfirm:
		if err := m.session.SetBaseFolder(m.pathInput.Value()); err != nil {
			// Stay in path entry; the session carries the error text.
			return m, nil
		}
		m.pathInput.Blur()
		m.renderer.Reset()
		m.mode = keymap.ModeNormal
		return m, m.ensureWatcher()
	case keymap.CmdCancel:
		m.pathInput.Blur()
		m.mode = keymap.ModeNormal
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleHelpKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keymap.GetBinding(msg, keymap.ModeHelp)
	if !ok {
		return m, nil
	}
	switch cmd {
	case keymap.CmdToggleHelp, keymap.CmdCancel:
		m.mode = m.helpFrom
		if m.mode == keymap.ModeHelp || m.mode == "" {
			m.mode = keymap.ModeNormal
		}
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// openPicker switches to a picker with the cursor on the current choice.
func (m *Model) openPicker(mode keymap.Mode) {
	m.mode = mode
	m.cursor = 0
	var current string
	if mode == keymap.ModeBatchPicker {
		current = m.session.View().Batch
	} else {
		current = m.session.View().Subject
	}
	if i := slices.Index(m.pickerItems(), current); i >= 0 {
		m.cursor = i
	}
}

// openBasePath switches to base folder entry, prefilled with the current one.
func (m *Model) openBasePath() tea.Cmd {
	m.mode = keymap.ModeBasePath
	m.pathInput.SetValue(m.session.BaseFolder())
	m.pathInput.CursorEnd()
	return m.pathInput.Focus()
}

// pickerItems returns the choices of the active picker.
func (m Model) pickerItems() []string {
	switch m.mode {
	case keymap.ModeBatchPicker:
		return m.session.Batches()
	case keymap.ModeSubjectPicker:
		return m.session.Subjects()
	default:
		return nil
	}
}

// clampCursor keeps the picker cursor inside a list that may have shrunk.
func (m *Model) clampCursor() {
	n := len(m.pickerItems())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
