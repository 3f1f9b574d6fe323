// Package dataset discovers the base → batch → subject folder hierarchy that
// holds image sequences, and watches it for changes.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/frames"
)

// ValidateBase checks that base exists and is a directory. It returns the
// cleaned path.
func ValidateBase(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.NewDatasetError("base folder is empty", errors.ErrInvalidBasePath)
	}

	cleaned := filepath.Clean(base)
	info, err := os.Stat(cleaned)
	if err != nil {
		return "", errors.NewDatasetError("cannot open base folder", errors.Join(errors.ErrInvalidBasePath, err)).
			WithPath(cleaned)
	}
	if !info.IsDir() {
		return "", errors.NewDatasetError("base folder is not a directory", errors.ErrInvalidBasePath).
			WithPath(cleaned)
	}
	return cleaned, nil
}

// ListBatches returns the batch folder names under base in discovery order.
func ListBatches(base string) ([]string, error) {
	names, err := listDirs(base)
	if err != nil {
		return nil, errors.NewDatasetError("cannot list batches", errors.Join(errors.ErrInvalidBasePath, err)).
			WithPath(base)
	}
	return names, nil
}

// ListSubjects returns the subject folder names of batch in discovery order.
func ListSubjects(base, batch string) ([]string, error) {
	dir := BatchDir(base, batch)
	names, err := listDirs(dir)
	if err != nil {
		return nil, errors.NewDatasetError("cannot list subjects", errors.Join(errors.ErrBatchNotFound, err)).
			WithPath(dir)
	}
	return names, nil
}

// BatchDir returns the folder of a batch.
func BatchDir(base, batch string) string {
	return filepath.Join(base, batch)
}

// SubjectDir returns the folder of a subject.
func SubjectDir(base, batch, subject string) string {
	return filepath.Join(base, batch, subject)
}

// listDirs returns the names of the non-hidden sub-directories of dir.
// os.ReadDir orders entries by file name.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() || isDirLink(filepath.Join(dir, entry.Name()), entry) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func isDirLink(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SubjectSummary describes one subject folder.
type SubjectSummary struct {
	Name      string
	Frames    int
	Malformed []error
	// Unordered lists frames whose number goes backwards in name order.
	Unordered []string
	Err       error
}

// BatchSummary describes one batch folder and its subjects.
type BatchSummary struct {
	Name     string
	Subjects []SubjectSummary
	Err      error
}

// Scan walks the whole hierarchy below base and counts the frames of every
// subject. Errors below the base level are recorded on the summary entry
// rather than aborting the scan.
func Scan(base string, extensions []string) ([]BatchSummary, error) {
	base, err := ValidateBase(base)
	if err != nil {
		return nil, err
	}
	batches, err := ListBatches(base)
	if err != nil {
		return nil, err
	}

	summaries := make([]BatchSummary, 0, len(batches))
	for _, batch := range batches {
		bs := BatchSummary{Name: batch}
		subjects, err := ListSubjects(base, batch)
		if err != nil {
			bs.Err = err
			summaries = append(summaries, bs)
			continue
		}
		for _, subject := range subjects {
			ss := SubjectSummary{Name: subject}
			seq, err := frames.List(SubjectDir(base, batch, subject), extensions)
			if err != nil {
				ss.Err = err
			} else {
				ss.Frames = seq.Len()
				ss.Malformed = seq.Malformed()
				ss.Unordered = seq.Unordered()
			}
			bs.Subjects = append(bs.Subjects, ss)
		}
		summaries = append(summaries, bs)
	}
	return summaries, nil
}
