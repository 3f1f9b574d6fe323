package frames

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Iron-Ham/framelabel/internal/errors"
)

// Frame is one image of a subject's sequence.
type Frame struct {
	// Index is the 0-based position in the sequence.
	Index int
	// Name is the file name without directory.
	Name string
	// Path is the full path to the file.
	Path string
}

// Number returns the frame number embedded in the file name.
func (f Frame) Number() (int, error) {
	return FrameNumber(f.Name)
}

// Sequence is the ordered list of frames found in one subject folder.
// A Sequence is a snapshot; call List again to pick up changes on disk.
type Sequence struct {
	dir    string
	frames []Frame
}

// List reads dir and returns its frames sorted by file name. Only regular,
// non-hidden files whose extension matches one of extensions (case-insensitive)
// are frames. A folder with no matching files yields an empty Sequence.
func List(dir string, extensions []string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewDatasetError("cannot list subject folder", err).WithPath(dir)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if matchesExtension(name, extensions) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	frames := make([]Frame, len(names))
	for i, name := range names {
		frames[i] = Frame{Index: i, Name: name, Path: filepath.Join(dir, name)}
	}
	return &Sequence{dir: dir, frames: frames}, nil
}

func matchesExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Dir returns the subject folder the sequence was listed from.
func (s *Sequence) Dir() string {
	return s.dir
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Empty reports whether the subject has no frames.
func (s *Sequence) Empty() bool {
	return s.Len() == 0
}

// At returns the frame at index i.
func (s *Sequence) At(i int) (Frame, bool) {
	if i < 0 || i >= s.Len() {
		return Frame{}, false
	}
	return s.frames[i], true
}

// All iterates the frames in order. Each call starts from the first frame.
func (s *Sequence) All() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.frames[i]) {
				return
			}
		}
	}
}

// Malformed returns the frame-number errors of every frame whose name does
// not carry a readable frame number.
func (s *Sequence) Malformed() []error {
	var errs []error
	for f := range s.All() {
		if _, err := f.Number(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Unordered returns the names of frames whose number is lower than that of
// an earlier frame. Frames are shown in name order, so such a subject would
// record labels against a misleading ordinal. Malformed names are skipped.
func (s *Sequence) Unordered() []string {
	var (
		out  []string
		last = -1
		seen bool
	)
	for f := range s.All() {
		n, err := f.Number()
		if err != nil {
			continue
		}
		if seen && n < last {
			out = append(out, f.Name)
		}
		last, seen = max(last, n), true
	}
	return out
}
