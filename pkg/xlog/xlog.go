// Package xlog centralizes log/slog handler construction: a text
// handler writing to io.MultiWriter(stderr, logfile), level gated by
// -verbose (there is no separate log-level option).
package xlog

import (
	"io"
	"log/slog"
	"os"
)

// Options configures New.
type Options struct {
	Verbose bool
	LogFile *os.File // optional; if nil, logs go to stderr only
}

// New builds the root logger.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if opts.LogFile != nil {
		w = io.MultiWriter(os.Stderr, opts.LogFile)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// For returns a sub-logger tagged with a "component" field, mirroring the
// service/component field convention used by evalgo-org-eve's zerolog
// wrapper — same idea, teacher's logging library (slog).
func For(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
