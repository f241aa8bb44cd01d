// Command fractalascii is the headless ASCII backend: it clears the
// screen, prints a character-mapped frame, and reports the iteration
// totals the CLI check-harness scenarios match against.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ericherman/coord-plane-iteration/cliopts"
	"github.com/ericherman/coord-plane-iteration/internal/xlog"
	"github.com/ericherman/coord-plane-iteration/plane"
	"github.com/ericherman/coord-plane-iteration/xy"
)

func main() {
	log := xlog.New()

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opts, err := cliopts.Parse(fs, os.Args[1:], true)
	if err != nil {
		fmt.Fprintln(os.Stderr, cliopts.FlagDiagnostic(err))
		cliopts.PrintHelp(os.Stdout, os.Args[0])
		os.Exit(0)
	}
	if opts.Help {
		cliopts.PrintHelp(os.Stdout, os.Args[0])
		return
	}
	if opts.Version {
		cliopts.PrintVersion(os.Stdout, os.Args[0])
		return
	}

	resX, resY := opts.ResolutionXY()
	pl, err := plane.New(os.Args[0], opts.Width, opts.Height,
		xy.XY{X: opts.CenterX, Y: opts.CenterY}, resX, resY,
		opts.Function, xy.XY{X: opts.SeedX, Y: opts.SeedY},
		opts.HaltAfter, opts.SkipRounds, opts.Threads)
	if err != nil {
		xlog.Die(log, err, "invalid configuration")
	}
	defer pl.Free()

	runASCII(pl, opts.HaltAfter, os.Stdout, bufio.NewReader(os.Stdin))
}

func runASCII(pl *plane.Plane, haltAfter uint64, out *os.File, in *bufio.Reader) {
	const itPerFrame = 1

	for i := uint64(0); ; i++ {
		pl.Iterate(itPerFrame)
		printFrame(out, pl)
		fmt.Fprintf(out, "%s %d escaped: %d not: %d", pl.FunctionName(), i,
			pl.EscapedCount(), pl.NotEscapedCount())

		if haltAfter == 0 {
			fmt.Fprint(out, " <enter> to continue, 'q<enter>' to quit: ")
			line, _ := in.ReadString('\n')
			if len(line) > 0 && line[0] == 'q' {
				break
			}
			applyKey(pl, line)
		} else if i+1 >= haltAfter {
			break
		}
	}
	fmt.Fprintln(out)
}

// clearScreen emits the ANSI "home then clear" sequence used before
// every ASCII frame.
func clearScreen(out *os.File) {
	fmt.Fprint(out, "\033[H\033[J")
}

// printFrame renders one full height x width grid: 0 is a space,
// 1-9 is that digit, 10-35 is an uppercase letter, 36-61 a lowercase
// letter, and anything else an asterisk.
func printFrame(out *os.File, pl *plane.Plane) {
	clearScreen(out)
	for y := uint32(0); y < pl.WinHeight(); y++ {
		for x := uint32(0); x < pl.WinWidth(); x++ {
			fmt.Fprintf(out, "%c", glyph(pl.PointAt(x, y).Escaped))
		}
		fmt.Fprintln(out)
	}
}

func glyph(escaped uint64) byte {
	switch {
	case escaped == 0:
		return ' '
	case escaped < 10:
		return byte('0' + escaped)
	case escaped < 36:
		return byte('A' + (escaped - 10))
	case escaped < 62:
		return byte('a' + (escaped - 36))
	default:
		return '*'
	}
}

// applyKey maps one interactive-mode keystroke to a plane mutation,
// matching coord_plane_char_update in the original.
func applyKey(pl *plane.Plane, line string) {
	if len(line) == 0 {
		return
	}
	switch line[0] {
	case 'j':
		_ = pl.NextFunction()
	case 'm':
		pl.ThreadsMore()
	case 'n':
		pl.ThreadsLess()
	case 'w':
		_ = pl.PanUp()
	case 's':
		_ = pl.PanDown()
	case 'a':
		_ = pl.PanLeft()
	case 'd':
		_ = pl.PanRight()
	case 'x':
		_ = pl.ZoomOut()
	case 'z':
		_ = pl.ZoomIn()
	}
}
