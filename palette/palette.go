// Package palette builds the RGB colour table that escape counts are
// mapped through, and the HSV->RGB conversion it is built from.
package palette

import "math"

// RGB24 is a 24-bit colour.
type RGB24 struct {
	Red, Green, Blue uint8
}

// ARGB packs a colour as a 32-bit ARGB word with full alpha, matching the
// external graphics-surface contract's pixel format.
func (c RGB24) ARGB() uint32 {
	return 0xFF000000 |
		uint32(c.Red)<<16 |
		uint32(c.Green)<<8 |
		uint32(c.Blue)
}

// HSV is a colour in hue/saturation/value form. Hue is in [0,360],
// saturation and value in [0,1].
type HSV struct {
	Hue, Sat, Val float64
}

// RGBFromHSV converts hsv to RGB in the [0,1] range per channel, using the
// standard chroma/offset/m decomposition.
func RGBFromHSV(hsv HSV) (r, g, b float64) {
	hue := hsv.Hue
	if hue == 360.0 {
		hue = 0.0
	}
	chroma := hsv.Val * hsv.Sat
	offset := chroma * (1.0 - math.Abs(math.Mod(hue/60.0, 2)-1.0))
	smallm := hsv.Val - chroma

	switch {
	case hue >= 0.0 && hue < 60.0:
		return chroma + smallm, offset + smallm, smallm
	case hue >= 60.0 && hue < 120.0:
		return offset + smallm, chroma + smallm, smallm
	case hue >= 120.0 && hue < 180.0:
		return smallm, chroma + smallm, offset + smallm
	case hue >= 180.0 && hue < 240.0:
		return smallm, offset + smallm, chroma + smallm
	case hue >= 240.0 && hue < 300.0:
		return offset + smallm, smallm, chroma + smallm
	case hue >= 300.0 && hue < 360.0:
		return chroma + smallm, smallm, offset + smallm
	default:
		return smallm, smallm, smallm
	}
}

func rgb24FromHSV(hsv HSV) RGB24 {
	r, g, b := RGBFromHSV(hsv)
	return RGB24{
		Red:   uint8(255 * r),
		Green: uint8(255 * g),
		Blue:  uint8(255 * b),
	}
}

// longTailGradiant returns the colour for escape distance i: black at 0,
// otherwise hue cycling through 360 degrees each time i grows by a
// factor of 2^8.
func longTailGradiant(i uint64) RGB24 {
	if i == 0 {
		return RGB24{}
	}
	const logDivisor = 8.0
	factor := math.Mod(math.Log2(float64(i))/logDivisor, 1.0)
	return rgb24FromHSV(HSV{Hue: 360.0 * factor, Sat: 1, Val: 1})
}

// Palette is an ordered table of colours indexed by escaped-count modulo
// its length. Entries [0, skipRounds) are forced to black.
type Palette struct {
	entries    []RGB24
	skipRounds int
}

// Grow returns a Palette with len entries, prefix-blackening the first
// skipRounds of them, generating the remainder via longTailGradiant.
// Calling Grow again with a larger len preserves previously computed
// entries (matching the original's realloc-based grow_palette).
func Grow(p *Palette, length, skipRounds int) *Palette {
	if p == nil {
		p = &Palette{}
	}
	if length <= len(p.entries) && skipRounds == p.skipRounds {
		return p
	}

	keep := len(p.entries)
	if skipRounds != p.skipRounds {
		keep = 0
	}
	grown := make([]RGB24, length)
	copy(grown, p.entries)

	for i := keep; i < skipRounds && i < length; i++ {
		grown[i] = RGB24{}
	}
	start := keep
	if skipRounds > start {
		start = skipRounds
	}
	for i := start; i < length; i++ {
		grown[i] = longTailGradiant(uint64(i))
	}

	p.entries = grown
	p.skipRounds = skipRounds
	return p
}

// Len returns the number of entries in the palette.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// At returns the colour for an escape count, wrapping modulo the
// palette's length.
func (p *Palette) At(escaped uint64) RGB24 {
	if p == nil || len(p.entries) == 0 {
		return RGB24{}
	}
	return p.entries[int(escaped%uint64(len(p.entries)))]
}
