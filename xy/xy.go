// Package xy implements complex-plane arithmetic and the escape-time
// generator-function table (Mandelbrot, Julia) used to advance a point's
// orbit and test whether it has escaped.
package xy

import "math"

// XY is a pair of wide-precision reals representing one complex value.
type XY struct {
	X, Y float64
}

// square returns in*in, treating in as a complex number a+bi.
func square(in XY) XY {
	xx := in.X * in.X
	yx := in.Y * in.X
	xy := in.X * in.Y
	yy := in.Y * in.Y * -1
	return XY{X: xx + yy, Y: yx + xy}
}

// RadiusSquared returns |c|^2.
func RadiusSquared(c XY) float64 {
	return (c.X * c.X) + (c.Y * c.Y)
}

const escapeRadiusSquared = 2.0 * 2.0

// Escaped reports whether |z|^2 exceeds the escape radius.
func Escaped(z XY) bool {
	return RadiusSquared(z) > escapeRadiusSquared
}

// InitMandelbrot sets c = at, z = (0,0): the orbit starts at the origin and
// the fixed point c is the pixel's coordinate.
func InitMandelbrot(at, seed XY) (c, z XY) {
	return at, XY{}
}

// InitJulia sets c = at, z = at: unlike Mandelbrot, the orbit itself starts
// at the pixel's coordinate; seed supplies the added constant each step.
func InitJulia(at, seed XY) (c, z XY) {
	return at, at
}

// StepMandelbrot advances z <- z^2 + c.
func StepMandelbrot(z, c, seed XY) XY {
	s := square(z)
	return XY{X: s.X + c.X, Y: s.Y + c.Y}
}

// StepJulia advances z <- z^2 + seed.
func StepJulia(z, c, seed XY) XY {
	s := square(z)
	return XY{X: s.X + seed.X, Y: s.Y + seed.Y}
}

// Func indices, matching the original's pfuncs_mandelbrot_idx / pfuncs_julia_idx.
const (
	MandelbrotIdx = 0
	JuliaIdx      = 1
)

// Variant is one entry of the generator-function table: Init sets a
// point's starting c/z given its plane coordinate and the plane's seed,
// Step advances z by one iteration, and Name identifies the variant for
// status lines and window titles.
type Variant struct {
	Init func(at, seed XY) (c, z XY)
	Step func(z, c, seed XY) XY
	Name string
}

// Variants is the fixed, build-time table of generator functions. At
// minimum two are required (Mandelbrot, Julia); the engine dispatches
// through this table polymorphically rather than switching on index.
var Variants = []Variant{
	MandelbrotIdx: {Init: InitMandelbrot, Step: StepMandelbrot, Name: "mandelbrot"},
	JuliaIdx:      {Init: InitJulia, Step: StepJulia, Name: "julia"},
}

// Trapped reports whether c lies in the Mandelbrot main cardioid or the
// period-2 bulb, two regions the orbit can never escape from. Points
// trapped by this a-priori test are never iterated.
func Trapped(c XY) bool {
	xm := c.X - 0.25
	q := xm*xm + c.Y*c.Y
	if q*(q+xm) < 0.25*c.Y*c.Y {
		return true
	}
	dx := c.X + 1
	if dx*dx+c.Y*c.Y < 0.0625 {
		return true
	}
	return false
}

// NearZeroSnap returns 0 if math.Abs(v) < half, else v unchanged. Used when
// deriving a pixel's plane coordinate so points that land extremely close
// to an axis are treated as exactly on it.
func NearZeroSnap(v, half float64) float64 {
	if math.Abs(v) < half {
		return 0
	}
	return v
}
