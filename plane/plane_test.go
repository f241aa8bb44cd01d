package plane

import (
	"testing"

	"github.com/ericherman/coord-plane-iteration/xy"
	"github.com/stretchr/testify/require"
)

func newTestPlane(t *testing.T, numThreads uint32) *Plane {
	t.Helper()
	p, err := New("test", 40, 30, xy.XY{X: -0.5, Y: 0}, 0.1, 0.1,
		xy.MandelbrotIdx, xy.XY{X: -1.25643, Y: -0.381086}, 0, 0, numThreads)
	require.NoError(t, err)
	t.Cleanup(p.Free)
	return p
}

func TestResetInvalidResolutionFails(t *testing.T) {
	_, err := New("test", 10, 10, xy.XY{}, 0, 1, xy.MandelbrotIdx, xy.XY{}, 0, 0, 1)
	require.ErrorIs(t, err, ErrInvalidResolution)
}

func TestPartitionInvariantAfterReset(t *testing.T) {
	p := newTestPlane(t, 1)
	total := int(p.WinWidth()) * int(p.WinHeight())
	require.Equal(t, total, len(p.live)+int(p.trappedCount)+int(p.escapedCount))
}

func TestTrappedPointsNeverLive(t *testing.T) {
	p := newTestPlane(t, 1)
	for _, idx := range p.live {
		require.False(t, p.allPoints[idx].Trapped)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	p := newTestPlane(t, 1)

	before := make([]Point, len(p.allPoints))
	copy(before, p.allPoints)

	p.Iterate(5)

	require.NoError(t, p.Reset(p.winWidth, p.winHeight, p.center, p.resX, p.resY, p.funcIdx, p.seed))
	require.Equal(t, before, p.allPoints)
	require.Equal(t, uint64(0), p.IterationCount())
}

func TestDeterminismUnderThreadCountChange(t *testing.T) {
	p1 := newTestPlane(t, 1)
	p8 := newTestPlane(t, 8)

	for i := 0; i < 20; i++ {
		p1.Iterate(50)
		p8.Iterate(50)
	}

	require.Equal(t, len(p1.allPoints), len(p8.allPoints))
	for i := range p1.allPoints {
		require.Equal(t, p1.allPoints[i].Escaped, p8.allPoints[i].Escaped, "pixel %d", i)
	}
}

func TestPanLeftThenRightRestoresCenter(t *testing.T) {
	p := newTestPlane(t, 1)
	original := p.Center()

	require.NoError(t, p.PanLeft())
	require.NoError(t, p.PanRight())

	require.InDelta(t, original.X, p.Center().X, 1e-9)
	require.InDelta(t, original.Y, p.Center().Y, 1e-9)
}

func TestZoomInThenOutRestoresResolution(t *testing.T) {
	p := newTestPlane(t, 1)
	origX, origY := p.ResolutionX(), p.ResolutionY()

	require.NoError(t, p.ZoomIn())
	require.NoError(t, p.ZoomOut())

	require.InDelta(t, origX, p.ResolutionX(), 1e-9)
	require.InDelta(t, origY, p.ResolutionY(), 1e-9)
}

func TestZoomIn10ThenOut10LeavesResolutionAndCenterUnchanged(t *testing.T) {
	p := newTestPlane(t, 1)
	origX, origY := p.ResolutionX(), p.ResolutionY()
	origCenter := p.Center()

	for i := 0; i < 10; i++ {
		require.NoError(t, p.ZoomIn())
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, p.ZoomOut())
	}

	require.InDelta(t, origX, p.ResolutionX(), 1e-6)
	require.InDelta(t, origY, p.ResolutionY(), 1e-6)
	require.InDelta(t, origCenter.X, p.Center().X, 1e-9)
	require.InDelta(t, origCenter.Y, p.Center().Y, 1e-9)
}

func TestNextFunctionMandelbrotJuliaMandelbrotRoundTrips(t *testing.T) {
	p := newTestPlane(t, 1)
	origCenter, origSeed := p.Center(), p.Seed()
	origResX, origResY := p.ResolutionX(), p.ResolutionY()

	require.NoError(t, p.NextFunction()) // -> julia
	require.Equal(t, xy.JuliaIdx, p.FunctionIndex())
	require.NoError(t, p.NextFunction()) // -> mandelbrot

	require.Equal(t, xy.MandelbrotIdx, p.FunctionIndex())
	require.InDelta(t, origCenter.X, p.Center().X, 1e-9)
	require.InDelta(t, origCenter.Y, p.Center().Y, 1e-9)
	require.InDelta(t, origSeed.X, p.Seed().X, 1e-9)
	require.InDelta(t, origSeed.Y, p.Seed().Y, 1e-9)
	require.Equal(t, origResX, p.ResolutionX())
	require.Equal(t, origResY, p.ResolutionY())
}

func TestHaltAfterCapsTotalIterations(t *testing.T) {
	p, err := New("test", 10, 10, xy.XY{X: -0.5, Y: 0}, 0.1, 0.1,
		xy.MandelbrotIdx, xy.XY{}, 7, 0, 1)
	require.NoError(t, err)
	t.Cleanup(p.Free)

	p.Iterate(5)
	require.Equal(t, uint64(5), p.IterationCount())
	p.Iterate(5)
	require.Equal(t, uint64(7), p.IterationCount())
	p.Iterate(5)
	require.Equal(t, uint64(7), p.IterationCount())
}

func TestEmptyLiveSetShortCircuitsIterate(t *testing.T) {
	p := newTestPlane(t, 1)
	p.live = p.live[:0]

	newlyEscaped := p.Iterate(100)
	require.Equal(t, uint64(0), newlyEscaped)
	require.Equal(t, uint64(0), p.IterationCount())
}

func TestRecenterUsesPixelCoordinate(t *testing.T) {
	p := newTestPlane(t, 1)
	want := p.PointAt(5, 5).C

	require.NoError(t, p.Recenter(5, 5))
	require.InDelta(t, want.X, p.Center().X, 1e-9)
	require.InDelta(t, want.Y, p.Center().Y, 1e-9)
}

func TestThreadsLessDoesNotShrinkExistingPool(t *testing.T) {
	p := newTestPlane(t, 4)
	p.Iterate(1) // forces pool creation at size 4
	require.Equal(t, 4, p.pool.Size())

	p.ThreadsLess()
	require.Equal(t, uint32(3), p.NumThreads())

	p.Iterate(1)
	require.Equal(t, 4, p.pool.Size(), "pool should not shrink until threads exceed its size again")
}

func TestThreadsLessFloorsAtOne(t *testing.T) {
	p := newTestPlane(t, 1)
	p.ThreadsLess()
	require.Equal(t, uint32(1), p.NumThreads())
}
