package labels

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/logging"
)

// LockSuffix is appended to the table path to name its lock file.
const LockSuffix = ".lock"

// Store is the label table of one labeling session. It keeps the table in
// memory and rewrites the file after every mutation. A mutation whose write
// fails is rolled back, so memory and disk never diverge.
type Store struct {
	mu     sync.Mutex
	path   string
	rows   []Row
	index  map[rowKey]int
	lock   *flock.Flock
	logger *logging.Logger
}

// Open locks and loads the table at path. A missing file is created with the
// header only. Another process holding the table yields ErrStoreLocked.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewStoreError("cannot create results folder", err).WithPath(path)
		}
	}

	lock := flock.New(path + LockSuffix)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.NewStoreError("cannot lock results file", err).WithPath(path)
	}
	if !ok {
		return nil, errors.NewStoreError("cannot lock results file", errors.ErrStoreLocked).WithPath(path)
	}

	s := &Store{
		path:   path,
		lock:   lock,
		logger: logger.With("results_file", path),
	}
	if err := s.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

// ReadRows reads the table at path without locking or creating it.
func ReadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStoreError("cannot read results file", err).WithPath(path)
	}
	return decode(bytes.NewReader(data), path)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.index = make(map[rowKey]int)
		if err := s.persist(); err != nil {
			return err
		}
		s.logger.Info("created results file")
		return nil
	}
	if err != nil {
		return errors.NewStoreError("cannot read results file", err).WithPath(s.path)
	}

	rows, err := decode(bytes.NewReader(data), s.path)
	if err != nil {
		return err
	}
	s.rows = rows
	s.index = make(map[rowKey]int, len(rows))
	for i, row := range rows {
		s.index[row.key()] = i
	}
	s.logger.Info("loaded results file", "rows", len(rows))
	return nil
}

// Path returns the table file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureRow inserts an empty row for (batch, subject) if none exists.
// It persists only when a row was inserted.
func (s *Store) EnsureRow(batch, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rowKey{batch: batch, subject: subject}
	if _, ok := s.index[key]; ok {
		return nil
	}

	s.rows = append(s.rows, Row{Batch: batch, Subject: subject})
	s.index[key] = len(s.rows) - 1
	if err := s.persist(); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		delete(s.index, key)
		return errors.Wrapf(err, "add row %s/%s", batch, subject)
	}

	s.logger.Info("added label row", "batch", batch, "subject", subject)
	return nil
}

// IsLabeled reports whether (batch, subject) has a time alive value.
func (s *Store) IsLabeled(batch, subject string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[rowKey{batch: batch, subject: subject}]
	return ok && s.rows[i].Labeled()
}

// Row returns a copy of the row for (batch, subject).
func (s *Store) Row(batch, subject string) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[rowKey{batch: batch, subject: subject}]
	if !ok {
		return Row{}, false
	}
	return s.rows[i], true
}

// Rows returns a copy of all rows in table order.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// SetField overwrites field of the row (batch, subject) with frame and
// persists the table. The row must have been created with EnsureRow.
func (s *Store) SetField(batch, subject string, field Field, frame int) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[rowKey{batch: batch, subject: subject}]
	if !ok {
		return errors.NewStoreError("cannot set "+string(field), errors.ErrRowNotFound).
			WithPath(s.path).
			WithKey(batch, subject)
	}

	old := s.rows[i].set(field, FrameValue(frame))
	if err := s.persist(); err != nil {
		s.rows[i].set(field, old)
		return errors.Wrapf(err, "set %s", field)
	}

	s.logger.Info("label saved",
		"batch", batch,
		"subject", subject,
		"field", string(field),
		"frame_number", frame,
	)
	return nil
}

// Save rewrites the table from memory.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

// Close releases the table lock. The table itself is always up to date.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock == nil {
		return nil
	}
	err := s.lock.Unlock()
	s.lock = nil
	return err
}

// persist rewrites the file. Caller holds mu.
func (s *Store) persist() error {
	var buf bytes.Buffer
	if err := encode(&buf, s.rows); err != nil {
		return errors.NewStoreError("cannot encode results", err).WithPath(s.path)
	}
	if err := atomicWriteFile(s.path, buf.Bytes(), 0644); err != nil {
		s.logger.Error("failed to write results file", "error", err.Error())
		return errors.NewStoreError("cannot write results file", err).
			WithPath(s.path).
			WithSeverity(errors.SeverityCritical)
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the same folder and renames it
// over path, so readers see either the old or the new table.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
