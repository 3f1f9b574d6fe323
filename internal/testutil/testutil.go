// Package testutil provides fixture builders for framelabel tests.
package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// MakeDataset creates a temporary base folder holding paths. Paths with an
// extension become small files, others become folders. Frame files are not
// valid images; use WriteImage where a decodable frame is needed.
//
//	base := testutil.MakeDataset(t, "B1/S1/img-01-000.jpg", "B1/empty")
func MakeDataset(t *testing.T, paths ...string) string {
	t.Helper()

	base := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(base, p)
		if filepath.Ext(p) == "" {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatalf("failed to create directory %s: %v", p, err)
			}
			continue
		}
		WriteFile(t, full, "x")
	}
	return base
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// WriteImage writes a w×h PNG to path. Pixel (x, y) has gray level
// fill(x, y); a nil fill gives a horizontal ramp.
func WriteImage(t *testing.T, path string, w, h int, fill func(x, y int) uint8) {
	t.Helper()

	if fill == nil {
		fill = func(x, _ int) uint8 { return uint8(x * 255 / max(w-1, 1)) }
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image %s: %v", path, err)
	}
}
