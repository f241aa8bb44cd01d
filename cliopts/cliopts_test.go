package cliopts

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGUIDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{}, false)
	require.NoError(t, err)

	require.Equal(t, uint32(800), opts.Width)
	require.Equal(t, uint32(600), opts.Height)
	require.Equal(t, -2.5, opts.XMin)
	require.Equal(t, 1.5, opts.XMax)
	require.Equal(t, -0.5, opts.CenterX)
	require.Equal(t, 0.0, opts.CenterY)
	require.Equal(t, 0, opts.Function)
	require.Equal(t, -1.25643, opts.SeedX)
	require.Equal(t, -0.381086, opts.SeedY)
	require.Equal(t, uint64(0), opts.HaltAfter)
	require.Equal(t, uint32(0), opts.SkipRounds)
}

func TestASCIIDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{}, true)
	require.NoError(t, err)

	require.Equal(t, uint32(79), opts.Width)
	require.Equal(t, uint32(24), opts.Height)
}

func TestExplicitFlagsOverrideDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{
		"--width=79", "--height=24", "--halt_after=1000",
	}, true)
	require.NoError(t, err)

	require.Equal(t, uint32(79), opts.Width)
	require.Equal(t, uint32(24), opts.Height)
	require.Equal(t, uint64(1000), opts.HaltAfter)
	require.Equal(t, -2.5, opts.XMin)
	require.Equal(t, 1.5, opts.XMax)
}

func TestShortFlagAliases(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{"-w=100", "-h=50", "-j=1"}, false)
	require.NoError(t, err)

	require.Equal(t, uint32(100), opts.Width)
	require.Equal(t, uint32(50), opts.Height)
	require.Equal(t, 1, opts.Function)
}

func TestHelpAndVersionShortCircuit(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{"--help"}, false)
	require.NoError(t, err)
	require.True(t, opts.Help)
	require.Equal(t, uint32(0), opts.Width) // rationalization skipped

	var buf bytes.Buffer
	PrintHelp(&buf, "fractalgui")
	require.Contains(t, buf.String(), "--width")
	require.Contains(t, buf.String(), "--halt_after")

	buf.Reset()
	PrintVersion(&buf, "fractalgui")
	require.Contains(t, buf.String(), Version)
}

func TestInvalidFunctionIndexFallsBackToMandelbrot(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, err := Parse(fs, []string{"--function=99"}, false)
	require.NoError(t, err)
	require.Equal(t, 0, opts.Function)
}

func TestUnrecognizedFlagReturnsErrorWithoutExiting(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, err := Parse(fs, []string{"--bogus"}, false)
	require.Error(t, err)
	// the standard library normalizes leading dashes away before
	// reporting the flag name, so both "-bogus" and "--bogus" produce
	// the same diagnostic.
	require.Equal(t, "unrecognized option: '-bogus'", FlagDiagnostic(err))
}

func TestResolutionXYDerivedFromRange(t *testing.T) {
	o := &Options{XMin: -2.5, XMax: 1.5, Width: 800}
	resX, resY := o.ResolutionXY()
	require.InDelta(t, 4.0/800, resX, 1e-12)
	require.Equal(t, resX, resY)
}
