// Package logging provides structured logging for framelabel.
//
// It wraps Go's log/slog JSON handler in a [Logger] that carries persistent
// context attributes (run ID, batch, subject) so every entry written during a
// labeling session can be traced back to the frame and row it touched.
//
// Logs are written to a single file that is rotated by size through
// [RotatingWriter]. The terminal UI owns stdout, so the logger never writes
// there; use [NopLogger] when logging is disabled and in tests.
//
//	logger, err := logging.NewLogger(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithBatch("B1").WithSubject("S1").Info("label committed",
//	    "field", "time alive", "frame_number", 42)
//
// Rotated files are named framelabel.log.1 (newest) through framelabel.log.N.
// With compression enabled, backups become framelabel.log.N.gz.
package logging
