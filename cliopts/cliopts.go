// Package cliopts parses the command-line flags shared by both
// entrypoints, applies the GUI-vs-ASCII default tables, and renders the
// --help/--version/diagnostic banners.
package cliopts

import (
	"flag"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"

	"github.com/ericherman/coord-plane-iteration/plane"
	"github.com/ericherman/coord-plane-iteration/xy"
)

// Version is the program version string printed by --version.
const Version = "0.1.0"

// Options holds the rationalized (post-default) configuration derived
// from argv. Width/Height/Threads/HaltAfter/SkipRounds are always >= the
// values shown in spec.md's CLI table; XMin/XMax/CenterX/CenterY/SeedX/
// SeedY are never NaN (a missing or NaN value takes its default), but an
// infinite value given on the command line is kept as is.
type Options struct {
	Width, Height    uint32
	CenterX, CenterY float64
	XMin, XMax       float64
	Function         int
	SeedX, SeedY     float64
	Threads          uint32
	HaltAfter        uint64
	SkipRounds       uint32
	Help, Version    bool
}

// ascii selects the ASCII-backend defaults (width 79 / height 24) in
// place of the GUI defaults (width 800 / height width*3/4).
func Parse(fs *flag.FlagSet, args []string, ascii bool) (*Options, error) {
	// The caller is expected to construct fs with flag.ContinueOnError so
	// a parse failure is reported here rather than exiting with status 2;
	// silence the standard library's own diagnostic/usage dump so callers
	// can print the original's "unrecognized option" message instead.
	fs.SetOutput(io.Discard)

	width := fs.Int("width", -1, "window width in pixels/characters")
	fs.IntVar(width, "w", -1, "alias for -width")
	height := fs.Int("height", -1, "window height in pixels/characters")
	fs.IntVar(height, "h", -1, "alias for -height")
	centerX := fs.Float64("center_x", math.NaN(), "real part of the view centre")
	fs.Float64Var(centerX, "x", math.NaN(), "alias for -center_x")
	centerY := fs.Float64("center_y", math.NaN(), "imaginary part of the view centre")
	fs.Float64Var(centerY, "y", math.NaN(), "alias for -center_y")
	from := fs.Float64("from", math.NaN(), "x-axis minimum")
	fs.Float64Var(from, "f", math.NaN(), "alias for -from")
	to := fs.Float64("to", math.NaN(), "x-axis maximum")
	fs.Float64Var(to, "t", math.NaN(), "alias for -to")
	function := fs.Int("function", -1, "generator function index (0 mandelbrot, 1 julia)")
	fs.IntVar(function, "j", -1, "alias for -function")
	seedX := fs.Float64("seed_x", math.NaN(), "julia seed real part")
	fs.Float64Var(seedX, "r", math.NaN(), "alias for -seed_x")
	seedY := fs.Float64("seed_y", math.NaN(), "julia seed imaginary part")
	fs.Float64Var(seedY, "i", math.NaN(), "alias for -seed_y")
	threads := fs.Int("threads", -1, "worker thread count")
	fs.IntVar(threads, "c", -1, "alias for -threads")
	haltAfter := fs.Int("halt_after", -1, "stop after this many total iterations; 0 means unbounded")
	fs.IntVar(haltAfter, "a", -1, "alias for -halt_after")
	skipRounds := fs.Int("skip_rounds", -1, "leading palette entries forced to black")
	fs.IntVar(skipRounds, "s", -1, "alias for -skip_rounds")
	help := fs.Bool("help", false, "print usage and exit")
	fs.BoolVar(help, "H", false, "alias for -help")
	version := fs.Bool("version", false, "print version and exit")
	fs.BoolVar(version, "V", false, "alias for -version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &Options{
		Help:    *help,
		Version: *version,
	}
	if opts.Help || opts.Version {
		return opts, nil
	}

	if *width < 1 {
		if ascii {
			*width = 79
		} else {
			*width = 800
		}
	}
	if *height < 1 {
		if ascii {
			*height = 24
		} else {
			*height = (*width * 3) / 4
		}
	}
	if math.IsNaN(*from) {
		*from = -2.5
	}
	if math.IsNaN(*to) {
		*to = *from + 4.0
	}
	if math.IsNaN(*centerX) {
		*centerX = -0.5
	}
	if math.IsNaN(*centerY) {
		*centerY = 0.0
	}
	if *function < 0 || *function >= len(xy.Variants) {
		*function = xy.MandelbrotIdx
	}
	if math.IsNaN(*seedX) {
		*seedX = -1.25643
	}
	if math.IsNaN(*seedY) {
		*seedY = -0.381086
	}
	if *haltAfter < 0 {
		*haltAfter = 0
	}
	if *skipRounds < 0 {
		*skipRounds = 0
	}
	if *threads < 1 {
		n := runtime.NumCPU()
		if n > 1 {
			n--
		}
		*threads = n
	}

	opts.Width = uint32(*width)
	opts.Height = uint32(*height)
	opts.XMin = *from
	opts.XMax = *to
	opts.CenterX = *centerX
	opts.CenterY = *centerY
	opts.Function = *function
	opts.SeedX = *seedX
	opts.SeedY = *seedY
	opts.Threads = uint32(*threads)
	opts.HaltAfter = uint64(*haltAfter)
	opts.SkipRounds = uint32(*skipRounds)

	return opts, nil
}

// ResolutionXY derives the per-axis resolution from the rationalized
// x-range and the requested window size.
func (o *Options) ResolutionXY() (resX, resY float64) {
	resX = (o.XMax - o.XMin) / float64(o.Width)
	resY = resX
	return resX, resY
}

// FlagDiagnostic renders a flag.Parse error in the original's
// "unrecognized option: '<c>'" form (coord-plane-option-parser.c's
// default case), pulling the offending flag token out of the standard
// library's own message.
func FlagDiagnostic(err error) string {
	msg := err.Error()
	token := msg
	if i := strings.LastIndex(msg, " -"); i >= 0 {
		token = msg[i+1:]
		if j := strings.IndexAny(token, ": "); j >= 0 {
			token = token[:j]
		}
	}
	return fmt.Sprintf("unrecognized option: '%s'", token)
}

// PrintVersion writes "<program> <version>" to w.
func PrintVersion(w io.Writer, program string) {
	fmt.Fprintf(w, "%s %s\n", program, Version)
}

// PrintHelp writes the full flag table to w, one line per flag.
func PrintHelp(w io.Writer, program string) {
	fmt.Fprintf(w, "usage: %s [flags]\n", program)
	rows := []struct{ long, short, desc string }{
		{"--width", "-w", "window width in pixels/characters (default 800 GUI, 79 ASCII)"},
		{"--height", "-h", "window height in pixels/characters (default width*3/4 GUI, 24 ASCII)"},
		{"--center_x", "-x", "real part of the view centre (default -0.5)"},
		{"--center_y", "-y", "imaginary part of the view centre (default 0.0)"},
		{"--from", "-f", "x-axis minimum (default -2.5)"},
		{"--to", "-t", "x-axis maximum (default from+4.0)"},
		{"--function", "-j", "generator function, 0 mandelbrot or 1 julia (default 0)"},
		{"--seed_x", "-r", "julia seed real part (default -1.25643)"},
		{"--seed_y", "-i", "julia seed imaginary part (default -0.381086)"},
		{"--threads", "-c", "worker thread count (default online CPUs - 1)"},
		{"--halt_after", "-a", "stop after N total iterations, 0 unbounded (default 0)"},
		{"--skip_rounds", "-s", "leading palette entries forced to black (default 0)"},
		{"--help", "-H", "print this message and exit"},
		{"--version", "-V", "print version and exit"},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-14s %-4s %s\n", r.long, r.short, r.desc)
	}
}

// Describe prints a --flag=value invocation that reproduces pl's
// current view, plus the derived y-axis range, matching the original's
// print_command_line.
func Describe(w io.Writer, program string, pl *plane.Plane) {
	fmt.Fprintf(w, "%s --function=%d", program, pl.FunctionIndex())
	if pl.FunctionIndex() == xy.JuliaIdx {
		seed := pl.Seed()
		fmt.Fprintf(w, " --seed_x=%g --seed_y=%g", seed.X, seed.Y)
	}
	if pl.SkipRounds() != 0 {
		fmt.Fprintf(w, " --skip_rounds=%d", pl.SkipRounds())
	}
	center := pl.Center()
	fmt.Fprintf(w, " --center_x=%g --center_y=%g", center.X, center.Y)
	fmt.Fprintf(w, " --from=%g --to=%g", pl.XMin(), pl.XMax())
	fmt.Fprintf(w, " --width=%d --height=%d\n", pl.WinWidth(), pl.WinHeight())
	fmt.Fprintf(w, "(y-axis co-ordinates range from: %g to: %g)\n", pl.YMin(), pl.YMax())
}

// Directions prints the function name, the Describe line, and a short
// key-binding summary, matching the original's print_directions.
func Directions(w io.Writer, program string, pl *plane.Plane) {
	fmt.Fprintf(w, "%s\n", pl.FunctionName())
	Describe(w, program, pl)
	fmt.Fprintln(w, "keys: wasd/arrows pan, z/x or wheel zoom, space next function, m/n threads +/-, q/esc quit")
}
