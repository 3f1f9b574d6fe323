package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the framelabel key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default framelabel key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:        defaultNormalBindings(),
			ModeBatchPicker:   defaultPickerBindings(ModeBatchPicker),
			ModeSubjectPicker: defaultPickerBindings(ModeSubjectPicker),
			ModeBasePath:      defaultBasePathBindings(),
			ModeHelp:          defaultHelpBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			// Frames
			{KeyType: tea.KeyRight, Command: CmdNextFrame, Description: "Next frame", Category: "Frames"},
			{KeyType: tea.KeyLeft, Command: CmdPrevFrame, Description: "Previous frame", Category: "Frames"},
			{KeyType: tea.KeyUp, Command: CmdAutoAdvance, Description: "Auto-advance (any key stops)", Category: "Frames"},
			{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdToggleGrayscale, Description: "Toggle grayscale", Category: "Frames"},

			// Labels
			{KeyType: tea.KeyRunes, Rune: 'x', Command: CmdCommitMetamorphosis, Description: "Save time of metamorphosis", Category: "Labels"},
			{KeyType: tea.KeyEnter, Command: CmdCommitAlive, Description: "Save time alive, next subject (needs a frame)", Category: "Labels"},

			// Subjects
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdNextSubject, Description: "Next subject without saving (skips empty subjects)", Category: "Subjects"},
			{KeyType: tea.KeyRunes, Rune: 'p', Command: CmdPrevSubject, Description: "Previous subject", Category: "Subjects"},
			{KeyType: tea.KeyRunes, Rune: 's', Command: CmdPickSubject, Description: "Choose subject", Category: "Subjects"},
			{KeyType: tea.KeyRunes, Rune: 'b', Command: CmdPickBatch, Description: "Choose batch", Category: "Subjects"},
			{KeyType: tea.KeyRunes, Rune: 'o', Command: CmdEditBasePath, Description: "Open base folder", Category: "Subjects"},

			// Application
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultPickerBindings(mode Mode) *ModeBindings {
	return &ModeBindings{
		Mode: mode,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyUp, Command: CmdCursorUp, Description: "Move up", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdCursorUp, Description: "Move up", Category: "Navigation"},
			{KeyType: tea.KeyDown, Command: CmdCursorDown, Description: "Move down", Category: "Navigation"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdCursorDown, Description: "Move down", Category: "Navigation"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Select", Category: "Actions"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Close", Category: "Actions"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdCancel, Description: "Close", Category: "Actions"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultBasePathBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeBasePath,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Open folder", Category: "Actions"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Cancel", Category: "Actions"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultHelpBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeHelp,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Close help", Category: "Application"},
			{KeyType: tea.KeyEsc, Command: CmdToggleHelp, Description: "Close help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdToggleHelp, Description: "Close help", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
