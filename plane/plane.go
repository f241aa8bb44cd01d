// Package plane implements the coordinate-plane data model and the
// incremental escape-time engine: per-pixel escape state, derived axis
// extents, reset/resize/pan/zoom/recenter/next-function, and the striped
// parallel Iterate step.
package plane

import (
	"errors"
	"fmt"

	"github.com/ericherman/coord-plane-iteration/workerpool"
	"github.com/ericherman/coord-plane-iteration/xy"
)

// ErrInvalidResolution is returned by Reset when either axis resolution
// is not strictly positive.
var ErrInvalidResolution = errors.New("plane: resolution must be > 0")

// Point is one pixel's iteration record.
type Point struct {
	C       xy.XY
	Z       xy.XY
	Seed    xy.XY
	Escaped uint64
	Trapped bool
}

// Plane holds the pixel grid, its view of the complex plane, and the
// counters and buffers the iteration engine needs.
type Plane struct {
	program string

	winWidth, winHeight uint32
	center              xy.XY
	resX, resY          float64

	funcIdx    int
	seed       xy.XY
	skipRounds uint32
	haltAfter  uint64
	numThreads uint32

	iterationCount uint64
	escapedCount   uint64
	trappedCount   uint64
	unchanged      uint64

	allPoints []Point
	live      []uint32 // indices into allPoints, compacted to not-yet-escaped/not-trapped
	scratch   []uint32 // reused per-iterate scratch space, sized len(allPoints)

	pool *workerpool.Pool
}

// New allocates a plane and performs the initial reset.
func New(program string, width, height uint32, center xy.XY, resX, resY float64,
	funcIdx int, seed xy.XY, haltAfter uint64, skipRounds, numThreads uint32) (*Plane, error) {

	p := &Plane{
		program:    program,
		skipRounds: skipRounds,
		haltAfter:  haltAfter,
		numThreads: numThreads,
	}
	if err := p.Reset(width, height, center, resX, resY, funcIdx, seed); err != nil {
		return nil, err
	}
	return p, nil
}

// Free stops the plane's worker pool, if one has been created.
func (p *Plane) Free() {
	if p.pool != nil {
		p.pool.StopAndFree()
		p.pool = nil
	}
}

// Reset reinitialises every per-pixel state from scratch given a new
// view of the plane, preserving backing-array allocation when it is
// already large enough.
func (p *Plane) Reset(width, height uint32, center xy.XY, resX, resY float64,
	funcIdx int, seed xy.XY) error {

	if !(resX > 0) || !(resY > 0) {
		return fmt.Errorf("%w: resX=%v resY=%v", ErrInvalidResolution, resX, resY)
	}

	p.winWidth = width
	p.winHeight = height
	p.center = center
	p.resX = resX
	p.resY = resY
	p.funcIdx = funcIdx
	p.seed = seed

	p.iterationCount = 0
	p.escapedCount = 0
	p.trappedCount = 0
	p.unchanged = 0

	needed := int(width) * int(height)
	if len(p.allPoints) < needed {
		p.allPoints = make([]Point, needed)
		p.scratch = make([]uint32, needed)
	}
	p.allPoints = p.allPoints[:needed]
	p.live = p.live[:0]
	if cap(p.live) < needed {
		p.live = make([]uint32, 0, needed)
	}

	variant := xy.Variants[funcIdx]
	xMin := p.xMin()
	yMax := p.yMax()

	for py := uint32(0); py < height; py++ {
		for px := uint32(0); px < width; px++ {
			i := int(py)*int(width) + int(px)

			at := xy.XY{
				X: xy.NearZeroSnap(xMin+float64(px)*resX, resX/2),
				Y: xy.NearZeroSnap(yMax-float64(py)*resY, resY/2),
			}

			c, z := variant.Init(at, seed)
			pt := &p.allPoints[i]
			pt.C = c
			pt.Z = z
			pt.Seed = seed
			pt.Escaped = 0

			if funcIdx == xy.MandelbrotIdx && xy.Trapped(c) {
				pt.Trapped = true
				p.trappedCount++
				continue
			}
			pt.Trapped = false
			p.live = append(p.live, uint32(i))
		}
	}

	return nil
}

// Resize derives a new X resolution from the current X-span divided by
// the new width; if preserveRatio, Y resolution is derived from the
// current Y-span the same way, else it matches the new X resolution.
func (p *Plane) Resize(newWidth, newHeight uint32, preserveRatio bool) error {
	xSpan := p.xMax() - p.xMin()
	newResX := xSpan / float64(newWidth)
	newResY := newResX
	if preserveRatio {
		ySpan := p.yMax() - p.yMin()
		newResY = ySpan / float64(newHeight)
	}
	return p.Reset(newWidth, newHeight, p.center, newResX, newResY, p.funcIdx, p.seed)
}

func (p *Plane) xMin() float64 { return p.center.X - p.resX*(float64(p.winWidth)/2) }
func (p *Plane) xMax() float64 { return p.center.X + p.resX*(float64(p.winWidth)/2) }
func (p *Plane) yMin() float64 { return p.center.Y - p.resY*(float64(p.winHeight)/2) }
func (p *Plane) yMax() float64 { return p.center.Y + p.resY*(float64(p.winHeight)/2) }

// XMin, XMax, YMin, YMax expose the derived visible-rectangle extents.
func (p *Plane) XMin() float64 { return p.xMin() }
func (p *Plane) XMax() float64 { return p.xMax() }
func (p *Plane) YMin() float64 { return p.yMin() }
func (p *Plane) YMax() float64 { return p.yMax() }

// PanLeft, PanRight, PanUp, PanDown shift the centre by one eighth of the
// corresponding span and reset.
func (p *Plane) PanLeft() error {
	xSpan := p.xMax() - p.xMin()
	c := p.center
	c.X -= xSpan / 8
	return p.Reset(p.winWidth, p.winHeight, c, p.resX, p.resY, p.funcIdx, p.seed)
}

func (p *Plane) PanRight() error {
	xSpan := p.xMax() - p.xMin()
	c := p.center
	c.X += xSpan / 8
	return p.Reset(p.winWidth, p.winHeight, c, p.resX, p.resY, p.funcIdx, p.seed)
}

func (p *Plane) PanUp() error {
	ySpan := p.yMax() - p.yMin()
	c := p.center
	c.Y += ySpan / 8
	return p.Reset(p.winWidth, p.winHeight, c, p.resX, p.resY, p.funcIdx, p.seed)
}

func (p *Plane) PanDown() error {
	ySpan := p.yMax() - p.yMin()
	c := p.center
	c.Y -= ySpan / 8
	return p.Reset(p.winWidth, p.winHeight, c, p.resX, p.resY, p.funcIdx, p.seed)
}

// ZoomIn multiplies both resolutions by 0.8 (shows less of the plane,
// more detail); ZoomOut multiplies by 1.25.
func (p *Plane) ZoomIn() error {
	return p.Reset(p.winWidth, p.winHeight, p.center, p.resX*0.8, p.resY*0.8, p.funcIdx, p.seed)
}

func (p *Plane) ZoomOut() error {
	return p.Reset(p.winWidth, p.winHeight, p.center, p.resX*1.25, p.resY*1.25, p.funcIdx, p.seed)
}

// Recenter sets the plane's centre to the complex coordinate that pixel
// (x, y) represented before this call, and resets.
func (p *Plane) Recenter(x, y uint32) error {
	i := int(y)*int(p.winWidth) + int(x)
	c := p.allPoints[i].C
	return p.Reset(p.winWidth, p.winHeight, c, p.resX, p.resY, p.funcIdx, p.seed)
}

// NextFunction advances to the next generator-function variant modulo
// the table length. Switching between Mandelbrot and Julia swaps the
// roles of centre and seed, so alternating twice restores the original
// view.
func (p *Plane) NextFunction() error {
	oldIdx := p.funcIdx
	newIdx := oldIdx + 1
	if newIdx >= len(xy.Variants) {
		newIdx = 0
	}

	center := p.center
	seed := p.seed
	if newIdx == xy.JuliaIdx || oldIdx == xy.JuliaIdx {
		center, seed = seed, center
	}

	return p.Reset(p.winWidth, p.winHeight, center, p.resX, p.resY, newIdx, seed)
}

// ThreadsMore increments the desired worker count.
func (p *Plane) ThreadsMore() {
	p.numThreads++
}

// ThreadsLess decrements the desired worker count, floored at 1.
//
// This intentionally does not shrink an already-running pool: Iterate
// only creates a new pool when the desired count exceeds the existing
// pool's size, so lowering the count below a previously-grown pool's
// size has no effect until a later ThreadsMore pushes past it again.
func (p *Plane) ThreadsLess() {
	if p.numThreads > 1 {
		p.numThreads--
	}
}

// Pool returns the plane's worker pool, or nil if Iterate has never run
// with a thread count of 2 or more. The colouring pass reuses this same
// pool rather than owning a second one.
func (p *Plane) Pool() *workerpool.Pool { return p.pool }

// Accessors.

func (p *Plane) Program() string          { return p.program }
func (p *Plane) FunctionName() string     { return xy.Variants[p.funcIdx].Name }
func (p *Plane) FunctionIndex() int       { return p.funcIdx }
func (p *Plane) Center() xy.XY            { return p.center }
func (p *Plane) Seed() xy.XY              { return p.seed }
func (p *Plane) ResolutionX() float64     { return p.resX }
func (p *Plane) ResolutionY() float64     { return p.resY }
func (p *Plane) HaltAfter() uint64        { return p.haltAfter }
func (p *Plane) SkipRounds() uint32       { return p.skipRounds }
func (p *Plane) WinWidth() uint32         { return p.winWidth }
func (p *Plane) WinHeight() uint32        { return p.winHeight }
func (p *Plane) IterationCount() uint64   { return p.iterationCount }
func (p *Plane) EscapedCount() uint64     { return p.escapedCount }
func (p *Plane) TrappedCount() uint64     { return p.trappedCount }
func (p *Plane) NotEscapedCount() int     { return len(p.live) }
func (p *Plane) Unchanged() uint64        { return p.unchanged }
func (p *Plane) NumThreads() uint32       { return p.numThreads }

// PointAt returns the iteration record for pixel (x, y).
func (p *Plane) PointAt(x, y uint32) Point {
	return p.allPoints[int(y)*int(p.winWidth)+int(x)]
}
