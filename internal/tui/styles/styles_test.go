package styles

import "testing"

func TestLabelColor(t *testing.T) {
	tests := []struct {
		labeled  bool
		expected string
	}{
		{true, "#10B981"},
		{false, "#9CA3AF"},
	}

	for _, tt := range tests {
		if got := LabelColor(tt.labeled); string(got) != tt.expected {
			t.Errorf("LabelColor(%v) = %q, want %q", tt.labeled, got, tt.expected)
		}
	}
}

func TestLabelIcon(t *testing.T) {
	if LabelIcon(true) == LabelIcon(false) {
		t.Error("labeled and unlabeled subjects should have different icons")
	}
}
