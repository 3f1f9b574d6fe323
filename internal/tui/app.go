// Package tui is the terminal presentation of a labeling session. It renders
// the session's view model and forwards key presses to it.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/framelabel/internal/labeling"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application for session.
func New(session *labeling.Session, opts Options) *App {
	return &App{model: NewModel(session, opts)}
}

// Run starts the TUI application and blocks until the operator quits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	final, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	if m, ok := final.(Model); ok {
		m.closeWatcher()
	}
	return err
}
