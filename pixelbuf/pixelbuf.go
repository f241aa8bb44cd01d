// Package pixelbuf maps a coordinate plane's per-pixel escape counts
// through a palette into a 32-bit ARGB pixel buffer, in parallel over a
// worker pool when one is large enough to be worth it.
package pixelbuf

import (
	"fmt"

	"github.com/ericherman/coord-plane-iteration/palette"
	"github.com/ericherman/coord-plane-iteration/plane"
	"github.com/ericherman/coord-plane-iteration/workerpool"
)

// PixelBuffer is a fixed-stride ARGB pixel buffer sized to match a
// plane's window dimensions.
type PixelBuffer struct {
	width, height uint32
	pixels        []uint32
	pal           *palette.Palette
}

// New allocates a pixel buffer and grows its palette to paletteLen
// entries, blackening the first skipRounds of them.
func New(width, height uint32, paletteLen int, skipRounds uint32) *PixelBuffer {
	b := &PixelBuffer{width: width, height: height}
	b.pixels = make([]uint32, int(width)*int(height))
	b.pal = palette.Grow(nil, paletteLen, int(skipRounds))
	return b
}

// Resize reallocates the pixel buffer for a new window size, preserving
// the palette.
func (b *PixelBuffer) Resize(width, height uint32) {
	b.width = width
	b.height = height
	need := int(width) * int(height)
	if cap(b.pixels) < need {
		b.pixels = make([]uint32, need)
	} else {
		b.pixels = b.pixels[:need]
	}
}

// Pixels returns the raw ARGB backing slice, row-major by y then x.
func (b *PixelBuffer) Pixels() []uint32 { return b.pixels }

func (b *PixelBuffer) updateLine(pl *plane.Plane, width uint32, y uint32) {
	row := b.pixels[int(y)*int(width) : int(y)*int(width)+int(width)]
	for x := uint32(0); x < width; x++ {
		escaped := pl.PointAt(x, y).Escaped
		row[x] = b.pal.At(escaped).ARGB()
	}
}

// Update recomputes every pixel from pl's current escape state. If pool
// has at least two workers, rows are split into contiguous ranges (one
// per worker, the last absorbing any remainder) since row locality in
// the pixel buffer matters more than perfectly even work here, unlike
// the engine's striped iteration partition.
func (b *PixelBuffer) Update(pl *plane.Plane, pool *workerpool.Pool) error {
	width, height := pl.WinWidth(), pl.WinHeight()
	if width != b.width || height != b.height {
		return fmt.Errorf("pixelbuf: plane size %dx%d != buffer size %dx%d",
			width, height, b.width, b.height)
	}

	if pool == nil || pool.Size() < 2 {
		for y := uint32(0); y < height; y++ {
			b.updateLine(pl, width, y)
		}
		return nil
	}

	numContexts := pool.Size()
	if uint32(numContexts) > height {
		numContexts = int(height)
	}
	lines := int(height) / numContexts
	leftover := int(height) % numContexts

	for i := 0; i < numContexts; i++ {
		firstY := uint32(i * lines)
		n := lines
		if i == numContexts-1 {
			n += leftover
		}
		func(firstY uint32, n int) {
			_ = pool.Add(func() {
				for i := 0; i < n; i++ {
					b.updateLine(pl, width, firstY+uint32(i))
				}
			})
		}(firstY, n)
	}
	pool.Wait()
	return nil
}
