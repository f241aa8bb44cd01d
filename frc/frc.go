// Package frc implements the adaptive frame-rate controller: it picks
// how many iterations to run per frame so that per-frame wall-clock
// time stays between a 30fps ceiling and a 45fps floor, and reports
// throughput once per wall-clock second.
package frc

import "time"

const usecPerSec = 1000 * 1000

// Controller tracks it_per_frame and the bookkeeping needed for a
// once-per-second stats line.
type Controller struct {
	itPerFrame uint32

	lastPrint             time.Time
	iterationsAtLastPrint uint64
	framesSincePrint      uint64
}

// New returns a controller starting at one iteration per frame.
func New() *Controller {
	return &Controller{itPerFrame: 1, lastPrint: zeroTime}
}

// zeroTime marks "never printed"; the first stats line always fires once
// a full second of wall-clock time has been observed.
var zeroTime time.Time

// StepsPerFrame returns how many iterations the next frame should run.
func (c *Controller) StepsPerFrame() uint32 {
	return c.itPerFrame
}

// Observe records how long the last frame's iteration batch took and
// adjusts StepsPerFrame for the next frame: below the low threshold it
// ramps up by one; above the high threshold it backs off by one below
// it_per_frame 10, or scales down by the measured/target ratio above
// that, always leaving it_per_frame >= 1.
func (c *Controller) Observe(elapsed time.Duration) {
	diff := uint64(elapsed / time.Microsecond)
	highThreshold := uint64(usecPerSec / 30)
	lowThreshold := uint64(usecPerSec / 45)

	switch {
	case diff < lowThreshold:
		c.itPerFrame++
	case diff > highThreshold && c.itPerFrame > 1:
		if c.itPerFrame < 10 {
			c.itPerFrame--
		} else {
			ratio := float64(highThreshold) / float64(diff)
			newPerFrame := uint32(float64(c.itPerFrame) * ratio)
			if newPerFrame >= c.itPerFrame {
				c.itPerFrame--
			} else {
				c.itPerFrame = newPerFrame
			}
			if c.itPerFrame == 0 {
				c.itPerFrame = 1
			}
		}
	}
	c.framesSincePrint++
}

// Stats is a once-per-second throughput snapshot.
type Stats struct {
	IterationsPerSecond float64
	FramesPerSecond     float64
	IterationsPerFrame  uint32
	Threads             int
}

// MaybeStats returns a Stats snapshot and true if more than one second
// has elapsed since the last snapshot, or force is set (used on
// shutdown, matching the original's "print one final line on exit"
// behaviour); otherwise returns the zero Stats and false. The first
// call only records now and iterationCount as the starting point and
// returns false, even when force is set.
func (c *Controller) MaybeStats(now time.Time, iterationCount uint64, threads int, force bool) (Stats, bool) {
	if c.lastPrint.IsZero() {
		c.lastPrint = now
		c.iterationsAtLastPrint = iterationCount
		return Stats{}, false
	}

	elapsed := now.Sub(c.lastPrint)
	if !force && elapsed <= time.Second {
		return Stats{}, false
	}

	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1e-9
	}

	fps := float64(c.framesSincePrint) / seconds

	var itDiff uint64
	if iterationCount >= c.iterationsAtLastPrint {
		itDiff = iterationCount - c.iterationsAtLastPrint
	} else {
		itDiff = iterationCount
	}
	ips := float64(itDiff) / seconds

	c.framesSincePrint = 0
	c.iterationsAtLastPrint = iterationCount
	c.lastPrint = now

	return Stats{
		IterationsPerSecond: ips,
		FramesPerSecond:     fps,
		IterationsPerFrame:  c.itPerFrame,
		Threads:             threads,
	}, true
}
