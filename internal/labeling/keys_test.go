package labeling

import "testing"

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  Key
		want Action
	}{
		{KeyUp, ActionStartAutoAdvance},
		{KeyX, ActionCommitMetamorphosis},
		{KeyEnter, ActionCommitAliveAndAdvance},
		{KeyRight, ActionStepForward},
		{KeyLeft, ActionStepBackward},
		{KeyNextSubject, ActionNextSubject},
		{KeyPrevSubject, ActionPrevSubject},
		{KeyGrayscale, ActionToggleGrayscale},
		{KeyOther, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if got := ActionFor(tt.key); got != tt.want {
				t.Errorf("ActionFor(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestBindings_UniqueKeys(t *testing.T) {
	seen := make(map[Key]bool)
	for _, b := range Bindings() {
		if seen[b.Key] {
			t.Errorf("key %v bound twice", b.Key)
		}
		seen[b.Key] = true
		if b.Description == "" {
			t.Errorf("key %v has no description", b.Key)
		}
	}
}

func TestBindings_ReturnsCopy(t *testing.T) {
	b := Bindings()
	b[0].Action = ActionNone
	if ActionFor(KeyUp) != ActionStartAutoAdvance {
		t.Error("mutating Bindings() changed the key map")
	}
}
