// Command fractalgui is the interactive GUI backend: an ebiten window
// that blits the plane's colour buffer every frame and maps keyboard
// and mouse input to pan/zoom/recenter/switch-function/thread-count
// actions.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rs/zerolog"

	"github.com/ericherman/coord-plane-iteration/cliopts"
	"github.com/ericherman/coord-plane-iteration/frc"
	"github.com/ericherman/coord-plane-iteration/internal/xlog"
	"github.com/ericherman/coord-plane-iteration/pixelbuf"
	"github.com/ericherman/coord-plane-iteration/plane"
	"github.com/ericherman/coord-plane-iteration/xy"
)

func main() {
	log := xlog.New()

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opts, err := cliopts.Parse(fs, os.Args[1:], false)
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

	g := &game{
		plane:     pl,
		buf:       pixelbuf.New(opts.Width, opts.Height, 2048, opts.SkipRounds),
		frc:       frc.New(),
		program:   os.Args[0],
		log:       log,
		haltAfter: opts.HaltAfter,
	}
	cliopts.Directions(os.Stdout, g.program, pl)

	ebiten.SetWindowTitle(pl.FunctionName())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(opts.Width), int(opts.Height))

	if err := ebiten.RunGame(g); err != nil {
		xlog.Die(log, err, "graphics backend failure")
	}
}

// game implements ebiten.Game, wiring the plane/pixelbuf/frc trio to
// the window's Update/Draw/Layout cycle and to keyboard/mouse input.
type game struct {
	plane     *plane.Plane
	buf       *pixelbuf.PixelBuffer
	frc       *frc.Controller
	program   string
	log       zerolog.Logger
	haltAfter uint64
	shutdown  bool
}

var _ ebiten.Game = (*game)(nil)

func (g *game) Update() error {
	if g.shutdown {
		return ebiten.Termination
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.shutdown = true
		return ebiten.Termination
	}

	changed := g.handleInput()
	if changed {
		g.printDirections()
	}

	before := time.Now()
	g.plane.Iterate(g.frc.StepsPerFrame())
	g.frc.Observe(time.Since(before))

	if g.haltAfter != 0 && g.plane.IterationCount() >= g.haltAfter {
		g.shutdown = true
	}

	if stats, ok := g.frc.MaybeStats(time.Now(), g.plane.IterationCount(), int(g.plane.NumThreads()), g.shutdown); ok {
		fmt.Printf("i:%d escaped: %d not: %d (ips: %.f fps: %.f ipf: %d thds: %d)     \r",
			g.plane.IterationCount(), g.plane.EscapedCount(), g.plane.NotEscapedCount(),
			stats.IterationsPerSecond, stats.FramesPerSecond, stats.IterationsPerFrame, stats.Threads)
	}

	return nil
}

// handleInput applies edge-triggered pan/zoom/thread-count/recenter
// actions and level-triggered next-function, returning true if the
// view changed this frame.
func (g *game) handleInput() bool {
	changed := false

	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		_ = g.plane.NextFunction()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		_ = g.plane.PanUp()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) || inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		_ = g.plane.PanDown()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) || inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		_ = g.plane.PanLeft()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		_ = g.plane.PanRight()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) || inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		_ = g.plane.ZoomIn()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) || inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		_ = g.plane.ZoomOut()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.plane.ThreadsMore()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.plane.ThreadsLess()
	}
	if _, wheelY := ebiten.Wheel(); wheelY > 0 {
		_ = g.plane.ZoomIn()
		changed = true
	} else if wheelY < 0 {
		_ = g.plane.ZoomOut()
		changed = true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx >= 0 && my >= 0 && uint32(mx) < g.plane.WinWidth() && uint32(my) < g.plane.WinHeight() {
			_ = g.plane.Recenter(uint32(mx), uint32(my))
			changed = true
		}
	}

	return changed
}

func (g *game) printDirections() {
	ebiten.SetWindowTitle(g.plane.FunctionName())
	cliopts.Directions(os.Stdout, g.program, g.plane)
}

func (g *game) Draw(screen *ebiten.Image) {
	_ = g.buf.Update(g.plane, g.plane.Pool())

	img := ebiten.NewImage(int(g.plane.WinWidth()), int(g.plane.WinHeight()))
	pix := make([]byte, 4*len(g.buf.Pixels()))
	for i, argb := range g.buf.Pixels() {
		pix[4*i+0] = byte(argb >> 16) // R
		pix[4*i+1] = byte(argb >> 8)  // G
		pix[4*i+2] = byte(argb)       // B
		pix[4*i+3] = byte(argb >> 24) // A
	}
	img.WritePixels(pix)
	screen.DrawImage(img, nil)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  i:%d", g.plane.FunctionName(), g.plane.IterationCount()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if uint32(outsideWidth) != g.plane.WinWidth() || uint32(outsideHeight) != g.plane.WinHeight() {
		_ = g.plane.Resize(uint32(outsideWidth), uint32(outsideHeight), false)
		g.buf.Resize(uint32(outsideWidth), uint32(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
