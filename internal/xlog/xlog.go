// Package xlog is the thin logging setup shared by both entrypoints: a
// console-friendly zerolog logger, plus the fatal/warn helpers that
// replace the original project's die()/logerror() call sites.
package xlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger that writes human-readable lines to stderr,
// matching the teacher's "log and keep going" / "log and exit" style.
func New() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// Die logs err as fatal (including file:line via the logger's caller
// hook) and exits the process with status 1. It replaces every
// allocate-or-die / invalid-configuration call site from the original.
func Die(log zerolog.Logger, err error, msg string) {
	log.Fatal().Err(err).Msg(msg)
}

// Warn logs err as a benign, transient problem and lets the caller
// continue, matching the original's logerror()-then-keep-going palette
// growth fallback.
func Warn(log zerolog.Logger, err error, msg string) {
	log.Warn().Err(err).Msg(msg)
}
