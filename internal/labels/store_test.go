package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/framelabel/internal/errors"
)

const header = "Batch,Subject,time alive,time of metamorphosis\n"

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestOpen_CreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	s := openStore(t, path)

	if got := readFile(t, path); got != header {
		t.Errorf("new table = %q, want %q", got, header)
	}
	if len(s.Rows()) != 0 {
		t.Errorf("Rows() = %v, want none", s.Rows())
	}
}

func TestOpen_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"wrong header", "Batch,Subject,alive,meta\n"},
		{"missing column", "Batch,Subject,time alive\n"},
		{"extra field", header + "B1,S1,3,4,5\n"},
		{"short row", header + "B1,S1\n"},
		{"non-numeric", header + "B1,S1,abc,\n"},
		{"fractional", header + "B1,S1,3.5,\n"},
		{"out of range", header + "B1,S1,99999999999,\n"},
		{"out of range decimal", header + "B1,S1,99999999999.0,\n"},
		{"duplicate", header + "B1,S1,,\nB1,S1,2,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "results.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Open(path, nil)
			if !errors.Is(err, errors.ErrStoreCorrupt) {
				t.Fatalf("Open() error = %v, want ErrStoreCorrupt", err)
			}
			if got := readFile(t, path); got != tt.content {
				t.Errorf("corrupt file was modified: %q", got)
			}

			// The lock is released on failure.
			if err := os.WriteFile(path, []byte(header), 0644); err != nil {
				t.Fatal(err)
			}
			s, err := Open(path, nil)
			if err != nil {
				t.Fatalf("re-Open() after fix failed: %v", err)
			}
			s.Close()
		})
	}
}

func TestOpen_ReadsLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	content := "\ufeffSubject,Batch,time of metamorphosis,time alive\n" +
		"S1,B1,12.0,40.0\n" +
		"S2,B1,,\n" +
		"S3,B1,nan,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := openStore(t, path)
	row, ok := s.Row("B1", "S1")
	if !ok {
		t.Fatal("row B1/S1 missing")
	}
	if row.TimeAlive != FrameValue(40) || row.Metamorphosis != FrameValue(12) {
		t.Errorf("row = %+v, want alive=40 metamorphosis=12", row)
	}
	if !s.IsLabeled("B1", "S1") || s.IsLabeled("B1", "S2") || s.IsLabeled("B1", "S3") {
		t.Error("IsLabeled mismatch")
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	content := header +
		"B2,S9,7,\n" +
		"B1,S1,,3\n" +
		"\"B,3\",\"S \"\"x\"\"\",100,50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := openStore(t, path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("round trip changed the table:\ngot  %q\nwant %q", got, content)
	}

	rows, err := ReadRows(path)
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(rows) != 3 || rows[2].Batch != "B,3" || rows[2].Subject != `S "x"` {
		t.Errorf("rows = %+v", rows)
	}
}

func TestEnsureRow_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	s := openStore(t, path)

	for range 2 {
		if err := s.EnsureRow("B1", "S1"); err != nil {
			t.Fatalf("EnsureRow failed: %v", err)
		}
	}
	if got := len(s.Rows()); got != 1 {
		t.Errorf("len(Rows()) = %d, want 1", got)
	}
	if got, want := readFile(t, path), header+"B1,S1,,\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestSetField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	s := openStore(t, path)

	if err := s.EnsureRow("B1", "S1"); err != nil {
		t.Fatal(err)
	}
	if s.IsLabeled("B1", "S1") {
		t.Error("IsLabeled before commit = true")
	}

	if err := s.SetField("B1", "S1", FieldMetamorphosis, 3); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if s.IsLabeled("B1", "S1") {
		t.Error("metamorphosis alone should not mark the subject labeled")
	}
	if err := s.SetField("B1", "S1", FieldTimeAlive, 5); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if err := s.SetField("B1", "S1", FieldTimeAlive, 9); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if !s.IsLabeled("B1", "S1") {
		t.Error("IsLabeled after commit = false")
	}
	if got, want := readFile(t, path), header+"B1,S1,9,3\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestSetField_Errors(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "results.csv"))

	err := s.SetField("B1", "S1", FieldTimeAlive, 1)
	if !errors.Is(err, errors.ErrRowNotFound) {
		t.Errorf("SetField without row error = %v, want ErrRowNotFound", err)
	}

	if err := s.EnsureRow("B1", "S1"); err != nil {
		t.Fatal(err)
	}
	err = s.SetField("B1", "S1", Field("time dead"), 1)
	if !errors.Is(err, errors.ErrUnknownField) {
		t.Errorf("SetField unknown field error = %v, want ErrUnknownField", err)
	}
}

func TestSetField_RollsBackOnWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	path := filepath.Join(dir, "results.csv")
	s := openStore(t, path)
	if err := s.EnsureRow("B1", "S1"); err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	if err := s.SetField("B1", "S1", FieldTimeAlive, 4); err == nil {
		t.Fatal("SetField should fail when the folder is gone")
	}
	if s.IsLabeled("B1", "S1") {
		t.Error("failed SetField left the value in memory")
	}

	if err := s.EnsureRow("B1", "S2"); err == nil {
		t.Fatal("EnsureRow should fail when the folder is gone")
	}
	if _, ok := s.Row("B1", "S2"); ok {
		t.Error("failed EnsureRow left the row in memory")
	}
}

func TestOpen_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	s := openStore(t, path)

	_, err := Open(path, nil)
	if !errors.Is(err, errors.ErrStoreLocked) {
		t.Fatalf("second Open() error = %v, want ErrStoreLocked", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	again, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open after Close failed: %v", err)
	}
	again.Close()
}

func TestParseField(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("Batch"); !errors.Is(err, errors.ErrUnknownField) {
		t.Errorf("ParseField(Batch) error = %v, want ErrUnknownField", err)
	}
}

func TestReadRows_Missing(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "none.csv"))
	if err == nil || !strings.Contains(err.Error(), "cannot read results file") {
		t.Errorf("ReadRows error = %v", err)
	}
}
