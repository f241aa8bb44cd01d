package plane

import (
	"github.com/ericherman/coord-plane-iteration/workerpool"
	"github.com/ericherman/coord-plane-iteration/xy"
)

// iterateContext is one worker's share of a batch: a stripe of live,
// the steps to run, and a private scratch slice to collect points that
// are still alive after the batch, so no two contexts ever write to the
// same memory.
type iterateContext struct {
	offset   int
	stepSize int
	steps    uint32

	localEscaped    uint64
	localNotEscaped int
	scratch         []uint32 // this context's slice of plane.scratch
}

// Iterate advances up to steps iterations across the live set, returns
// the number of points that newly escaped during this batch.
//
// steps is clamped so the plane's total iteration count never exceeds
// haltAfter (when haltAfter != 0). If steps clamps to zero, or the live
// set is already empty, Iterate is a no-op and returns 0.
func (p *Plane) Iterate(steps uint32) uint64 {
	if p.haltAfter != 0 {
		remaining := p.haltAfter - p.iterationCount
		if remaining == 0 {
			return 0
		}
		if uint64(steps) > remaining {
			steps = uint32(remaining)
		}
	}
	if steps == 0 || len(p.live) == 0 {
		return 0
	}

	before := p.escapedCount
	beforeLive := len(p.live)

	w := int(p.numThreads)
	if w < 1 {
		w = 1
	}
	if w < 2 {
		p.iterateSingleThreaded(steps)
	} else {
		p.iterateMultiThreaded(steps, w)
	}

	p.iterationCount += uint64(steps)
	if len(p.live) == beforeLive {
		p.unchanged += uint64(steps)
	} else {
		p.unchanged = 0
	}

	return p.escapedCount - before
}

func (p *Plane) runContext(ctx *iterateContext) {
	variant := xy.Variants[p.funcIdx]
	ctx.localEscaped = 0
	ctx.localNotEscaped = 0

	for j := ctx.offset; j < len(p.live); j += ctx.stepSize {
		idx := p.live[j]
		pt := &p.allPoints[idx]

		for i := uint32(0); i < ctx.steps && pt.Escaped == 0; i++ {
			if xy.Escaped(pt.Z) {
				pt.Escaped = p.iterationCount + uint64(i) + 1
				break
			}
			pt.Z = variant.Step(pt.Z, pt.C, pt.Seed)
		}

		if pt.Escaped != 0 {
			ctx.localEscaped++
		} else {
			ctx.scratch[ctx.localNotEscaped] = idx
			ctx.localNotEscaped++
		}
	}
}

func (p *Plane) mergeContext(ctx *iterateContext) {
	p.escapedCount += ctx.localEscaped
	p.live = append(p.live, ctx.scratch[:ctx.localNotEscaped]...)
}

func (p *Plane) iterateSingleThreaded(steps uint32) {
	ctx := &iterateContext{
		offset:   0,
		stepSize: 1,
		steps:    steps,
		scratch:  p.scratch,
	}
	p.runContext(ctx)
	p.live = p.live[:0]
	p.mergeContext(ctx)
}

// iterateMultiThreaded partitions live by striping (thread t handles
// indices t, t+W, t+2W, ...), so clustered unfinished regions still
// balance across workers, unlike a contiguous-slab split.
//
// Per the threads_less asymmetry (see ThreadsLess), the pool is only
// recreated when it is smaller than the desired worker count; a
// pool that is larger than currently desired keeps running at its old
// size until explicitly outgrown again.
func (p *Plane) iterateMultiThreaded(steps uint32, w int) {
	if p.pool == nil || p.pool.Size() < w {
		if p.pool != nil {
			p.pool.StopAndFree()
		}
		p.pool = workerpool.New(w)
	}

	contexts := make([]*iterateContext, w)
	lo := 0
	for t := 0; t < w; t++ {
		// stripe t holds live indices t, t+w, ..., so it can keep at
		// most this many survivors
		n := 0
		if t < len(p.live) {
			n = (len(p.live) - t + w - 1) / w
		}
		ctx := &iterateContext{
			offset:   t,
			stepSize: w,
			steps:    steps,
			scratch:  p.scratch[lo : lo+n],
		}
		lo += n
		contexts[t] = ctx
		_ = p.pool.Add(func() {
			p.runContext(ctx)
		})
	}

	p.pool.Wait()

	p.live = p.live[:0]
	for _, ctx := range contexts {
		p.mergeContext(ctx)
	}
}
