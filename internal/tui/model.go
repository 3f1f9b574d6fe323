package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/framelabel/internal/dataset"
	"github.com/Iron-Ham/framelabel/internal/labeling"
	"github.com/Iron-Ham/framelabel/internal/logging"
	"github.com/Iron-Ham/framelabel/internal/tui/keymap"
	"github.com/Iron-Ham/framelabel/internal/tui/preview"
)

// previewCacheSize is the number of rendered frames kept around.
const previewCacheSize = 16

// Options configures the TUI.
type Options struct {
	// AutoAdvanceInterval is the delay between auto-advance steps.
	AutoAdvanceInterval time.Duration
	// FeedbackTimeout is how long transient feedback stays visible.
	FeedbackTimeout time.Duration
	// Preview renders frames in the terminal.
	Preview bool
	// MaxPreviewWidth caps the preview width in cells; 0 means no cap.
	MaxPreviewWidth int
	// Watch rescans the dataset when files change below the base folder.
	Watch bool
	// BasePath prefills base folder entry when the session has no base folder.
	BasePath string
	// Logger receives presentation events.
	Logger *logging.Logger
}

// Model is the Bubbletea model of a labeling session.
type Model struct {
	session  *labeling.Session
	keymap   *keymap.Keymap
	renderer *preview.Renderer
	logger   *logging.Logger
	opts     Options

	watcher     *dataset.Watcher
	watchedBase string

	mode      keymap.Mode
	helpFrom  keymap.Mode
	cursor    int
	pathInput textinput.Model

	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates the model for session.
func NewModel(session *labeling.Session, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.AutoAdvanceInterval <= 0 {
		opts.AutoAdvanceInterval = 200 * time.Millisecond
	}
	if opts.FeedbackTimeout <= 0 {
		opts.FeedbackTimeout = time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "path/to/base/folder"
	ti.Prompt = "› "
	ti.CharLimit = 4096

	m := Model{
		session:   session,
		keymap:    keymap.DefaultKeymap(),
		renderer:  preview.NewRenderer(previewCacheSize),
		logger:    opts.Logger,
		opts:      opts,
		mode:      keymap.ModeNormal,
		pathInput: ti,
	}
	if session.BaseFolder() == "" {
		m.openBasePath()
		m.pathInput.SetValue(opts.BasePath)
		m.pathInput.CursorEnd()
	}
	m.ensureWatcher()
	return m
}

// Init waits for the first dataset change.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("framelabel"),
		waitForChange(m.watcher),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.pathInput.Width = max(msg.Width-12, 10)
		return m, nil

	case autoAdvanceMsg:
		if m.session.AutoAdvanceTick(msg.handle) {
			return m, m.scheduleAutoAdvance(msg.handle)
		}
		return m, nil

	case feedbackExpiredMsg:
		m.session.ClearFeedback(msg.id)
		return m, nil

	case datasetChangedMsg:
		if msg.watcher != m.watcher {
			return m, nil
		}
		before := m.snapshot()
		if err := m.session.Rescan(); err != nil {
			m.logger.Warn("rescan failed", "error", err.Error())
		}
		m.renderer.Reset()
		m.clampCursor()
		return m, tea.Batch(m.followUp(before), waitForChange(m.watcher))
	}

	if m.mode == keymap.ModeBasePath {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// snapshot records the session state that follow-up commands depend on.
type snapshot struct {
	handle   labeling.AutoAdvanceHandle
	feedback uint64
}

func (m Model) snapshot() snapshot {
	return snapshot{
		handle:   m.session.AutoAdvance(),
		feedback: m.session.Feedback().ID,
	}
}

// followUp schedules the timers implied by a session change: the first step
// of a new auto-advance run and the expiry of new transient feedback.
func (m Model) followUp(before snapshot) tea.Cmd {
	var cmds []tea.Cmd
	if h := m.session.AutoAdvance(); h != 0 && h != before.handle {
		cmds = append(cmds, m.scheduleAutoAdvance(h))
	}
	if fb := m.session.Feedback(); fb.ID != before.feedback && fb.Transient {
		cmds = append(cmds, m.scheduleFeedbackExpiry(fb.ID))
	}
	return tea.Batch(cmds...)
}

func (m Model) scheduleAutoAdvance(h labeling.AutoAdvanceHandle) tea.Cmd {
	return tea.Tick(m.opts.AutoAdvanceInterval, func(time.Time) tea.Msg {
		return autoAdvanceMsg{handle: h}
	})
}

func (m Model) scheduleFeedbackExpiry(id uint64) tea.Cmd {
	return tea.Tick(m.opts.FeedbackTimeout, func(time.Time) tea.Msg {
		return feedbackExpiredMsg{id: id}
	})
}

// ensureWatcher starts watching the session's base folder when it differs
// from the one being watched.
func (m *Model) ensureWatcher() tea.Cmd {
	base := m.session.BaseFolder()
	if !m.opts.Watch || base == "" || base == m.watchedBase {
		return nil
	}
	m.closeWatcher()

	w, err := dataset.NewWatcher(base, m.logger)
	if err != nil {
		m.logger.Warn("cannot watch base folder", "base", base, "error", err.Error())
		return nil
	}
	w.Start()
	m.watcher = w
	m.watchedBase = base
	return waitForChange(w)
}

func (m *Model) closeWatcher() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		m.logger.Warn("failed to close watcher", "error", err.Error())
	}
	m.watcher = nil
	m.watchedBase = ""
}

// Mode returns the current input mode.
func (m Model) Mode() keymap.Mode { return m.mode }
