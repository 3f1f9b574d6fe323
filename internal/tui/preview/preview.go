// Package preview renders image frames as terminal text using half-block
// cells, two image rows per terminal row.
package preview

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock draws the top pixel in the foreground colour and the bottom pixel
// in the background colour.
const halfBlock = "▀"

// Options controls a single render.
type Options struct {
	// Width and Height bound the output in terminal cells.
	Width  int
	Height int
	// Grayscale converts to luminance and equalizes the histogram.
	Grayscale bool
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Equalize converts img to grayscale and spreads its histogram over the full
// 0-255 range.
func Equalize(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	var hist [256]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			gray.SetGray(x, y, color.Gray{Y: v})
			hist[v]++
		}
	}

	lut := equalizeLUT(hist)
	for i, v := range gray.Pix {
		gray.Pix[i] = lut[v]
	}
	return gray
}

// equalizeLUT builds the equalization lookup table. The count of the
// brightest populated level is left out of the step; an image with a single
// level maps to itself.
func equalizeLUT(hist [256]int) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}

	total, last, levels := 0, 0, 0
	for _, n := range hist {
		if n > 0 {
			total += n
			last = n
			levels++
		}
	}
	if levels <= 1 {
		return lut
	}
	step := (total - last) / 256
	if step == 0 {
		return lut
	}

	n := step / 2
	for i := range lut {
		lut[i] = uint8(min(n/step, 255))
		n += hist[i]
	}
	return lut
}

// Resize scales img to w×h pixels with nearest-neighbour sampling.
func Resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return dst
	}
	for y := range h {
		sy := b.Min.Y + y*b.Dy()/h
		for x := range w {
			sx := b.Min.X + x*b.Dx()/w
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

// Fit returns the pixel size of a square preview that fits in width×height
// cells. Each cell holds one pixel across and two down.
func Fit(width, height int) (cols, rows int) {
	size := min(width, height*2)
	if size < 2 {
		return 0, 0
	}
	size -= size % 2
	return size, size / 2
}

// Render draws img as text of cols×rows cells. img is scaled to cols×(2·rows)
// pixels first.
func Render(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	px := Resize(img, cols, rows*2)

	var sb strings.Builder
	for row := range rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for x := range cols {
			top := px.RGBAAt(x, row*2)
			bottom := px.RGBAAt(x, row*2+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hex(top)).
				Background(hex(bottom)).
				Render(halfBlock))
		}
	}
	return sb.String()
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

type cacheKey struct {
	path      string
	grayscale bool
	cols      int
	rows      int
}

// Renderer renders frames by path and keeps the most recent results, so
// stepping back and forth over a few frames does not decode them again.
type Renderer struct {
	mu    sync.Mutex
	size  int
	cache map[cacheKey]string
	order []cacheKey
}

// NewRenderer returns a Renderer that caches up to size renders.
func NewRenderer(size int) *Renderer {
	return &Renderer{
		size:  max(size, 1),
		cache: make(map[cacheKey]string),
	}
}

// Render loads, optionally equalizes, and draws the image at path.
func (r *Renderer) Render(path string, opts Options) (string, error) {
	cols, rows := Fit(opts.Width, opts.Height)
	if cols == 0 {
		return "", nil
	}
	key := cacheKey{path: path, grayscale: opts.Grayscale, cols: cols, rows: rows}

	r.mu.Lock()
	if out, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	img, err := Load(path)
	if err != nil {
		return "", err
	}
	if opts.Grayscale {
		img = Equalize(img)
	}
	out := Render(img, cols, rows)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[key]; !ok {
		r.cache[key] = out
		r.order = append(r.order, key)
		for len(r.order) > r.size {
			delete(r.cache, r.order[0])
			r.order = r.order[1:]
		}
	}
	return out, nil
}

// Forget drops every cached render of path, e.g. after the file changed.
func (r *Renderer) Forget(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, k := range r.order {
		if k.path == path {
			delete(r.cache, k)
			continue
		}
		kept = append(kept, k)
	}
	r.order = kept
}

// Reset drops every cached render.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[cacheKey]string)
	r.order = nil
}
