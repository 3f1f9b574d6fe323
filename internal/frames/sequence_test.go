package frames

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func names(s *Sequence) []string {
	var out []string
	for f := range s.All() {
		out = append(out, f.Name)
	}
	return out
}

func TestList_SortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"img-03-x.jpg",
		"img-01-x.jpg",
		"img-02-x.JPG",
		"notes.txt",
		".hidden-04-x.jpg",
	)
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	seq, err := List(dir, []string{".jpg"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"img-01-x.jpg", "img-02-x.JPG", "img-03-x.jpg"}
	if got := names(seq); !slices.Equal(got, want) {
		t.Errorf("frames = %v, want %v", got, want)
	}

	for i := 0; i < seq.Len(); i++ {
		f, ok := seq.At(i)
		if !ok {
			t.Fatalf("At(%d) missing", i)
		}
		if f.Index != i {
			t.Errorf("At(%d).Index = %d", i, f.Index)
		}
		if f.Path != filepath.Join(dir, f.Name) {
			t.Errorf("At(%d).Path = %q", i, f.Path)
		}
		if n, err := f.Number(); err != nil || n != i+1 {
			t.Errorf("At(%d).Number() = %d, %v; want %d", i, n, err, i+1)
		}
	}
	if seq.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", seq.Dir(), dir)
	}
}

func TestList_Empty(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.md")

	seq, err := List(dir, []string{".jpg"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !seq.Empty() || seq.Len() != 0 {
		t.Errorf("Len() = %d, want 0", seq.Len())
	}
	if _, ok := seq.At(0); ok {
		t.Error("At(0) on empty sequence should report false")
	}
}

func TestList_MissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "nope"), []string{".jpg"}); err == nil {
		t.Error("List on a missing folder should fail")
	}
}

func TestSequence_AllIsRestartable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a-1-x.jpg", "a-2-x.jpg", "a-3-x.jpg")

	seq, err := List(dir, []string{".jpg"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Stop early, then iterate again from the start.
	for f := range seq.All() {
		if f.Index == 1 {
			break
		}
	}
	if got := names(seq); len(got) != 3 || got[0] != "a-1-x.jpg" {
		t.Errorf("second iteration = %v", got)
	}
}

func TestSequence_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a-1-x.jpg", "a-b-x.jpg", "plain.jpg")

	seq, err := List(dir, []string{".jpg"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if errs := seq.Malformed(); len(errs) != 2 {
		t.Errorf("Malformed() = %v, want 2 errors", errs)
	}
}

func TestSequence_Unordered(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{"ordered", []string{"a-1-x.jpg", "a-2-x.jpg", "a-3-x.jpg"}, nil},
		{"repeated numbers", []string{"a-1-x.jpg", "a-1-y.jpg"}, nil},
		{
			name:  "unpadded numbers",
			files: []string{"img-10-a.jpg", "img-2-b.jpg", "img-9-c.jpg", "x.jpg"},
			want:  []string{"img-2-b.jpg", "img-9-c.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)
			seq, err := List(dir, []string{".jpg"})
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if got := seq.Unordered(); !slices.Equal(got, tt.want) {
				t.Errorf("Unordered() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSequence_NilSafe(t *testing.T) {
	var seq *Sequence
	if seq.Len() != 0 || !seq.Empty() {
		t.Error("nil sequence should be empty")
	}
	for range seq.All() {
		t.Error("nil sequence should not yield")
	}
}
