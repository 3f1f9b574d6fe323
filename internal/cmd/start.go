package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/framelabel/internal/config"
	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/labeling"
	"github.com/Iron-Ham/framelabel/internal/labels"
	"github.com/Iron-Ham/framelabel/internal/logging"
	"github.com/Iron-Ham/framelabel/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [base-folder]",
	Short: "Start a labeling session",
	Long: `Start a labeling session on a base folder laid out as
<base-folder>/<batch>/<subject>/<frames>. Without an argument the configured
paths.base_dir is used. An invalid folder opens the folder prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().String("results", "", "label table file (default is paths.results_file)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	base := cfg.Paths.ResolveBaseDir()
	if len(args) > 0 {
		base = args[0]
	}
	results := resultsPath(cmd, cfg)

	logger := newLogger(cfg).WithSession(uuid.NewString())
	defer logger.Close()

	store, err := labels.Open(results, logger)
	if err != nil {
		if errors.Is(err, errors.ErrStoreLocked) {
			return fmt.Errorf("%s is in use by another framelabel session", results)
		}
		return errors.Wrap(err, "failed to open results file")
	}
	defer store.Close()

	session := labeling.NewSession(store, labeling.Options{
		Extensions: cfg.Frames.Extensions,
		Grayscale:  cfg.Display.Grayscale,
		Logger:     logger,
	})
	if err := session.SetBaseFolder(base); err != nil {
		logger.Warn("initial base folder rejected", "base", base, "error", err.Error())
	}
	logger.Info("session started", "base", base, "results", store.Path())

	app := tui.New(session, tui.Options{
		AutoAdvanceInterval: cfg.Playback.AutoAdvanceInterval(),
		FeedbackTimeout:     cfg.Playback.FeedbackTimeout(),
		Preview:             cfg.Display.Preview,
		MaxPreviewWidth:     cfg.Display.MaxPreviewWidth,
		Watch:               cfg.Watch.Enabled,
		BasePath:            base,
		Logger:              logger,
	})
	if err := app.Run(); err != nil {
		return errors.Wrap(err, "TUI error")
	}

	logger.Info("session ended")
	return nil
}

// newLogger returns the file logger described by cfg. Logging problems never
// stop a session; they fall back to discarding output.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(cfg.Paths.ResolveLogDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}
