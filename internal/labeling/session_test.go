package labeling

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/labels"
	"github.com/Iron-Ham/framelabel/internal/navigation"
	"github.com/Iron-Ham/framelabel/internal/testutil"
)

func newSession(t *testing.T, base string) (*Session, *labels.Store) {
	t.Helper()
	store, err := labels.Open(filepath.Join(t.TempDir(), "results.csv"), nil)
	if err != nil {
		t.Fatalf("labels.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := NewSession(store, Options{})
	if err := s.SetBaseFolder(base); err != nil {
		t.Fatalf("SetBaseFolder failed: %v", err)
	}
	return s, store
}

// failingStore rejects label writes with err and row inserts with ensureErr.
type failingStore struct {
	err       error
	ensureErr error
}

func (f *failingStore) EnsureRow(string, string) error                   { return f.ensureErr }
func (f *failingStore) IsLabeled(string, string) bool                    { return false }
func (f *failingStore) SetField(string, string, labels.Field, int) error { return f.err }

func TestScenario_CommitAndCompleteBatch(t *testing.T) {
	base := testutil.MakeDataset(t,
		"B1/S1/img-01-000.jpg",
		"B1/S1/img-02-000.jpg",
		"B1/S1/img-03-000.jpg",
	)
	s, store := newSession(t, base)

	if err := s.SelectBatch("B1"); err != nil {
		t.Fatalf("SelectBatch failed: %v", err)
	}
	if s.View().Subject != "S1" {
		t.Fatalf("first subject not selected: %+v", s.View())
	}

	s.HandleKey(KeyRight)
	s.HandleKey(KeyRight)
	if got := s.View().FrameIndex; got != 2 {
		t.Fatalf("FrameIndex = %d, want 2", got)
	}

	if err := s.HandleKey(KeyX); err != nil {
		t.Fatalf("commit metamorphosis failed: %v", err)
	}
	row, _ := store.Row("B1", "S1")
	if row.Metamorphosis != labels.FrameValue(3) {
		t.Errorf("metamorphosis = %+v, want 3", row.Metamorphosis)
	}
	if got := s.Feedback().Text; got != FeedbackMetamorphosisSaved {
		t.Errorf("feedback = %q", got)
	}
	if s.View().Status != StatusNotLabeled {
		t.Errorf("status = %q, want %q", s.View().Status, StatusNotLabeled)
	}

	if err := s.HandleKey(KeyEnter); err != nil {
		t.Fatalf("commit time alive failed: %v", err)
	}
	row, _ = store.Row("B1", "S1")
	if row.TimeAlive != labels.FrameValue(3) {
		t.Errorf("time alive = %+v, want 3", row.TimeAlive)
	}

	v := s.View()
	if v.Feedback.Text != FeedbackBatchComplete || v.Feedback.Transient {
		t.Errorf("feedback = %+v, want persistent batch complete", v.Feedback)
	}
	if v.Subject != "S1" || v.FrameIndex != 2 {
		t.Errorf("subject changed to %q at %d", v.Subject, v.FrameIndex)
	}
	if v.Status != StatusLabeled || !v.Labeled {
		t.Errorf("status = %q, want %q", v.Status, StatusLabeled)
	}
}

func TestScenario_SubjectWithoutFrames(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/readme.txt")
	s, store := newSession(t, base)

	if err := s.SelectBatch("B1"); err != nil {
		t.Fatalf("SelectBatch failed: %v", err)
	}

	if _, err := s.DisplayFrame(); !errors.Is(err, errors.ErrNoFramesInSubject) {
		t.Errorf("DisplayFrame() error = %v, want ErrNoFramesInSubject", err)
	}
	if s.ErrorText() != "No images found in the selected subject folder." {
		t.Errorf("ErrorText() = %q", s.ErrorText())
	}

	for _, k := range []Key{KeyRight, KeyLeft, KeyUp} {
		if err := s.HandleKey(k); err != nil {
			t.Errorf("HandleKey(%v) error = %v", k, err)
		}
	}
	if v := s.View(); v.FrameIndex != 0 || v.AutoAdvance != 0 || v.FramePath != "" {
		t.Errorf("navigation changed state: %+v", v)
	}
	if v := s.View(); v.FrameOrdinal != "Image Number: N/A" {
		t.Errorf("FrameOrdinal = %q", v.FrameOrdinal)
	}

	if err := s.CommitLabel(labels.FieldTimeAlive); !errors.Is(err, errors.ErrNoFramesInSubject) {
		t.Errorf("CommitLabel error = %v, want ErrNoFramesInSubject", err)
	}
	if err := s.HandleKey(KeyEnter); !errors.Is(err, errors.ErrNoFramesInSubject) {
		t.Errorf("Enter error = %v, want ErrNoFramesInSubject", err)
	}
	if row, _ := store.Row("B1", "S1"); row.TimeAlive.Set || row.Metamorphosis.Set {
		t.Errorf("row modified: %+v", row)
	}
}

func TestSelectSubject_EnsuresRowAndResetsIndex(t *testing.T) {
	base := testutil.MakeDataset(t,
		"B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg",
		"B1/S2/a-1-x.jpg",
	)
	s, store := newSession(t, base)

	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}
	s.StepFrame(1)
	if err := s.SelectSubject("S2"); err != nil {
		t.Fatalf("SelectSubject failed: %v", err)
	}
	if s.View().FrameIndex != 0 {
		t.Errorf("FrameIndex = %d, want 0", s.View().FrameIndex)
	}

	rows := store.Rows()
	if len(rows) != 2 || rows[0].Subject != "S1" || rows[1].Subject != "S2" {
		t.Errorf("rows = %+v", rows)
	}

	if err := s.SelectSubject("S9"); !errors.Is(err, errors.ErrSubjectNotFound) {
		t.Errorf("unknown subject error = %v", err)
	}
	if s.View().Subject != "S2" {
		t.Error("failed selection changed subject")
	}
}

func TestCommitThenIsLabeled(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-7-x.jpg", "B1/S2/a-1-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	if s.IsLabeled("S1") {
		t.Error("IsLabeled before commit = true")
	}
	if err := s.CommitLabel(labels.FieldTimeAlive); err != nil {
		t.Fatal(err)
	}
	if !s.IsLabeled("S1") {
		t.Error("IsLabeled after commit = false")
	}

	v := s.View()
	if !v.Subjects[0].Labeled || v.Subjects[1].Labeled {
		t.Errorf("subject list = %+v", v.Subjects)
	}
}

func TestCommitAndAdvance_MovesToNextSubject(t *testing.T) {
	base := testutil.MakeDataset(t,
		"B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg",
		"B1/S2/a-1-x.jpg",
	)
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}
	s.StepFrame(1)

	if err := s.HandleKey(KeyEnter); err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.Subject != "S2" || v.FrameIndex != 0 {
		t.Errorf("after Enter subject=%q index=%d; want S2 at 0", v.Subject, v.FrameIndex)
	}
	if v.Feedback.Text != FeedbackTimeAliveSaved || !v.Feedback.Transient {
		t.Errorf("feedback = %+v", v.Feedback)
	}
}

func TestCommitLabel_MalformedName(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/plain.jpg")
	s, store := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	err := s.HandleKey(KeyEnter)
	if !errors.Is(err, errors.ErrMalformedFilename) {
		t.Fatalf("error = %v, want ErrMalformedFilename", err)
	}
	if row, _ := store.Row("B1", "S1"); row.TimeAlive.Set {
		t.Error("malformed commit wrote a value")
	}
	if s.ErrorText() == "" {
		t.Error("ErrorText() should report the failure")
	}
}

func TestCommitLabel_StoreFailureDoesNotAdvance(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S2/a-1-x.jpg")
	s := NewSession(&failingStore{err: errors.NewStoreError("write", errors.ErrStoreCorrupt)}, Options{})
	if err := s.SetBaseFolder(base); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	if err := s.HandleKey(KeyEnter); !errors.Is(err, errors.ErrStoreCorrupt) {
		t.Fatalf("error = %v, want ErrStoreCorrupt", err)
	}
	if s.View().Subject != "S1" {
		t.Error("failed commit advanced to the next subject")
	}
	if s.Feedback().Text != "" {
		t.Errorf("feedback = %q, want none", s.Feedback().Text)
	}
}

func TestAutoAdvance(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg", "B1/S1/a-3-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	h, ok := s.StartAutoAdvance()
	if !ok || h == 0 || s.AutoAdvance() != h {
		t.Fatalf("StartAutoAdvance() = %v, %v", h, ok)
	}
	if !s.AutoAdvanceTick(h) {
		t.Error("first tick should continue")
	}
	if s.AutoAdvanceTick(h) {
		t.Error("tick reaching the last frame should stop")
	}
	if s.View().FrameIndex != 2 || s.AutoAdvance() != 0 {
		t.Errorf("index=%d handle=%d", s.View().FrameIndex, s.AutoAdvance())
	}
	if s.AutoAdvanceTick(h) || s.View().FrameIndex != 2 {
		t.Error("stale tick moved the frame")
	}
}

func TestAutoAdvance_StartAtLastFrame(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}
	s.StepFrame(1)

	if h, ok := s.StartAutoAdvance(); ok || h != 0 {
		t.Errorf("StartAutoAdvance() at last frame = %v, %v", h, ok)
	}
	if s.View().FrameIndex != 1 {
		t.Error("index changed")
	}
}

func TestAutoAdvance_CancelledByKeys(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg", "B1/S1/a-3-x.jpg", "B1/S1/a-4-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		key  Key
	}{
		{"unbound key", KeyOther},
		{"step", KeyLeft},
		{"commit", KeyX},
		{"grayscale", KeyGrayscale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := s.StartAutoAdvance()
			if !ok {
				t.Fatal("StartAutoAdvance failed")
			}
			s.HandleKey(tt.key)
			if s.AutoAdvance() != 0 {
				t.Error("auto-advance still active")
			}
			before := s.View().FrameIndex
			if s.AutoAdvanceTick(h) || s.View().FrameIndex != before {
				t.Error("cancelled run still advanced")
			}
		})
	}
}

func TestAutoAdvance_UpRestarts(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg", "B1/S1/a-3-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	first, _ := s.StartAutoAdvance()
	s.HandleKey(KeyUp)
	second := s.AutoAdvance()
	if second == 0 || second == first {
		t.Fatalf("Up should start a new run: first=%d second=%d", first, second)
	}
	if s.AutoAdvanceTick(first) {
		t.Error("old run still ticking")
	}
	if !s.AutoAdvanceTick(second) || s.View().FrameIndex != 1 {
		t.Error("new run did not advance")
	}
}

func TestCancelAutoAdvance_Idempotent(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg")
	s, _ := newSession(t, base)

	s.CancelAutoAdvance(0)
	s.CancelAutoAdvance(42)

	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}
	h, _ := s.StartAutoAdvance()
	s.CancelAutoAdvance(h)
	s.CancelAutoAdvance(h)
	if s.AutoAdvance() != 0 {
		t.Error("run still active after cancel")
	}
}

func TestSetBaseFolder_InvalidKeepsState(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	err := s.SetBaseFolder(filepath.Join(base, "missing"))
	if !errors.Is(err, errors.ErrInvalidBasePath) {
		t.Fatalf("error = %v, want ErrInvalidBasePath", err)
	}
	if s.ErrorText() != "Invalid path. Please enter a valid folder path." {
		t.Errorf("ErrorText() = %q", s.ErrorText())
	}
	if v := s.View(); v.BaseFolder != base || v.Subject != "S1" {
		t.Errorf("state changed: base=%q subject=%q", v.BaseFolder, v.Subject)
	}
}

func TestSetBaseFolder_SelectsFirstBatchAndSubject(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		state   navigation.State
		batch   string
		subject string
	}{
		{
			name:    "first subject of first batch",
			paths:   []string{"B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg", "B1/S2/a-1-x.jpg", "B2/T1/a-1-x.jpg"},
			state:   navigation.SubjectSelected,
			batch:   "B1",
			subject: "S1",
		},
		{
			name:  "first batch without subjects",
			paths: []string{"B1", "B2/T1/a-1-x.jpg"},
			state: navigation.BatchSelected,
			batch: "B1",
		},
		{
			name:  "no batches",
			paths: []string{"notes.txt"},
			state: navigation.Idle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newSession(t, testutil.MakeDataset(t, tt.paths...))

			v := s.View()
			if v.State != tt.state || v.Batch != tt.batch || v.Subject != tt.subject {
				t.Fatalf("state=%v selection=%s/%s, want %v %s/%s",
					v.State, v.Batch, v.Subject, tt.state, tt.batch, tt.subject)
			}
			if v.FrameIndex != 0 {
				t.Errorf("FrameIndex = %d, want 0", v.FrameIndex)
			}
			if tt.subject != "" {
				if _, ok := store.Row(tt.batch, tt.subject); !ok {
					t.Error("first subject has no label row")
				}
			}
		})
	}
}

func TestSetBaseFolder_FirstBatchFailure(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg")
	s := NewSession(&failingStore{ensureErr: errors.NewStoreError("write", errors.ErrStoreCorrupt)}, Options{})

	if err := s.SetBaseFolder(base); err != nil {
		t.Fatalf("SetBaseFolder failed: %v", err)
	}
	if s.BaseFolder() != base || s.State() != navigation.Idle {
		t.Errorf("base=%q state=%v, want %q idle", s.BaseFolder(), s.State(), base)
	}
	if s.ErrorText() == "" {
		t.Error("ErrorText() should report the failed row insert")
	}
}

func TestSelect_EnsureRowFailureKeepsSelection(t *testing.T) {
	base := testutil.MakeDataset(t,
		"B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg",
		"B1/S2/a-1-x.jpg",
		"B2/T1/a-1-x.jpg",
	)
	store := &failingStore{}
	s := NewSession(store, Options{})
	if err := s.SetBaseFolder(base); err != nil {
		t.Fatal(err)
	}
	s.StepFrame(1)

	store.ensureErr = errors.NewStoreError("write", errors.ErrStoreCorrupt)

	tests := []struct {
		name   string
		action func() error
	}{
		{"batch", func() error { return s.SelectBatch("B2") }},
		{"subject", func() error { return s.SelectSubject("S2") }},
		{"next subject", func() error { _, err := s.NextSubject(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.action(); !errors.Is(err, errors.ErrStoreCorrupt) {
				t.Fatalf("error = %v, want ErrStoreCorrupt", err)
			}
			v := s.View()
			if v.Batch != "B1" || v.Subject != "S1" {
				t.Errorf("selection = %s/%s, want B1/S1 kept", v.Batch, v.Subject)
			}
			if v.State != navigation.SubjectSelected || !slices.Equal(s.Subjects(), []string{"S1", "S2"}) {
				t.Errorf("state=%v subjects=%v", v.State, s.Subjects())
			}
			if s.ErrorText() == "" {
				t.Error("ErrorText() should report the failure")
			}
		})
	}
}

func TestSelectSubject_RowWriteFailureLeavesTable(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S2/a-1-x.jpg")
	dir := filepath.Join(t.TempDir(), "out")
	store, err := labels.Open(filepath.Join(dir, "results.csv"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	s := NewSession(store, Options{})
	if err := s.SetBaseFolder(base); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	if err := s.SelectSubject("S2"); err == nil {
		t.Fatal("SelectSubject should fail when the table cannot be written")
	}
	if _, ok := store.Row("B1", "S2"); ok {
		t.Error("failed insert left a row in memory")
	}
	if s.View().Subject != "S1" {
		t.Errorf("Subject = %q, want S1 kept", s.View().Subject)
	}
}

func TestSelectBatch(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B2")
	s, _ := newSession(t, base)

	if got := s.Batches(); !slices.Equal(got, []string{"B1", "B2"}) {
		t.Errorf("Batches() = %v", got)
	}
	if err := s.SelectBatch("B9"); !errors.Is(err, errors.ErrBatchNotFound) {
		t.Errorf("unknown batch error = %v", err)
	}
	if err := s.SelectBatch("B2"); err != nil {
		t.Fatalf("SelectBatch(B2) failed: %v", err)
	}
	if s.State() != navigation.BatchSelected || s.View().Subject != "" {
		t.Errorf("empty batch: state=%v subject=%q", s.State(), s.View().Subject)
	}
	if err := s.AdvanceToNextSubject(); !errors.Is(err, errors.ErrNoSubjectSelected) {
		t.Errorf("AdvanceToNextSubject without subject error = %v", err)
	}
}

func TestNextPrevSubject(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S2/a-1-x.jpg")
	s, store := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	if moved, err := s.PrevSubject(); moved || err != nil {
		t.Errorf("PrevSubject() at first = %v, %v", moved, err)
	}
	if err := s.HandleKey(KeyNextSubject); err != nil {
		t.Fatal(err)
	}
	if s.View().Subject != "S2" {
		t.Errorf("subject = %q, want S2", s.View().Subject)
	}
	if moved, _ := s.NextSubject(); moved {
		t.Error("NextSubject() at last should report false")
	}
	if err := s.HandleKey(KeyPrevSubject); err != nil || s.View().Subject != "S1" {
		t.Errorf("PrevSubject: subject=%q err=%v", s.View().Subject, err)
	}
	if store.IsLabeled("B1", "S1") || store.IsLabeled("B1", "S2") {
		t.Error("skipping subjects should not label them")
	}
}

func TestFeedbackExpiry(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}

	if err := s.CommitLabel(labels.FieldMetamorphosis); err != nil {
		t.Fatal(err)
	}
	first := s.Feedback().ID
	if err := s.CommitLabel(labels.FieldMetamorphosis); err != nil {
		t.Fatal(err)
	}
	second := s.Feedback().ID

	if s.ClearFeedback(first) {
		t.Error("expiry of older feedback cleared the newer one")
	}
	if !s.ClearFeedback(second) || s.Feedback().Text != "" {
		t.Error("feedback not cleared")
	}

	if err := s.AdvanceToNextSubject(); err != nil {
		t.Fatal(err)
	}
	id := s.Feedback().ID
	if s.ClearFeedback(id) {
		t.Error("batch complete feedback should not expire")
	}
}

func TestToggleGrayscale(t *testing.T) {
	s := NewSession(&failingStore{}, Options{Grayscale: true})
	if !s.Grayscale() {
		t.Error("initial grayscale not applied")
	}
	if s.ToggleGrayscale() || s.View().Grayscale {
		t.Error("toggle should turn grayscale off")
	}
}

func TestView_FrameOrdinal(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg")
	if v := NewSession(&failingStore{}, Options{}).View(); v.State != navigation.Idle || v.FrameOrdinal != "Image Number: N/A" {
		t.Errorf("idle view = %+v", v)
	}

	s, _ := newSession(t, base)
	s.StepFrame(1)

	v := s.View()
	if v.FrameOrdinal != "Image Number: 2" {
		t.Errorf("FrameOrdinal = %q", v.FrameOrdinal)
	}
	if v.FramePath != filepath.Join(base, "B1", "S1", "a-2-x.jpg") || v.FrameName != "a-2-x.jpg" {
		t.Errorf("frame = %q (%q)", v.FramePath, v.FrameName)
	}
	if v.Status != StatusNotLabeled {
		t.Errorf("Status = %q", v.Status)
	}
}

func TestRescan(t *testing.T) {
	base := testutil.MakeDataset(t, "B1/S1/a-1-x.jpg", "B1/S1/a-2-x.jpg", "B1/S1/a-3-x.jpg")
	s, _ := newSession(t, base)
	if err := s.SelectBatch("B1"); err != nil {
		t.Fatal(err)
	}
	s.StepFrame(2)

	if err := os.Remove(filepath.Join(base, "B1", "S1", "a-3-x.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "B1", "S0"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "B2"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := s.Rescan(); err != nil {
		t.Fatalf("Rescan failed: %v", err)
	}
	v := s.View()
	if v.Subject != "S1" || v.FrameCount != 2 || v.FrameIndex != 1 {
		t.Errorf("after rescan subject=%q count=%d index=%d", v.Subject, v.FrameCount, v.FrameIndex)
	}
	if len(v.Subjects) != 2 || v.Subjects[0].Name != "S0" {
		t.Errorf("subjects = %+v", v.Subjects)
	}
	if !slices.Equal(v.Batches, []string{"B1", "B2"}) {
		t.Errorf("batches = %v", v.Batches)
	}

	if err := os.RemoveAll(filepath.Join(base, "B1", "S1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Rescan(); err != nil {
		t.Fatalf("Rescan failed: %v", err)
	}
	if s.State() != navigation.BatchSelected {
		t.Errorf("State() = %v, want batch_selected", s.State())
	}

	if err := os.RemoveAll(filepath.Join(base, "B1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Rescan(); err != nil {
		t.Fatalf("Rescan failed: %v", err)
	}
	if s.State() != navigation.Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}
