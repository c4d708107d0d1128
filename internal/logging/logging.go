// Package logging provides the logger threaded through a sync run. It has two
// output levels, normal and verbose, plus warnings and errors that are always
// emitted. Nothing here touches slog's global default.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Logger writes run progress through slog and raw report text to out.
type Logger struct {
	log     *slog.Logger
	out     io.Writer
	prefix  string
	quiet   bool
	verbose bool
}

// New returns a Logger writing to w. Colour is enabled only when w is a terminal.
func New(w io.Writer, prefix string, quiet, verbose bool) *Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:   slog.LevelDebug,
		NoColor: noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})

	return &Logger{
		log:     slog.New(handler),
		out:     w,
		prefix:  prefix,
		quiet:   quiet,
		verbose: verbose,
	}
}

// Discard returns a Logger that writes nowhere.
func Discard() *Logger {
	return New(io.Discard, "", true, false)
}

// Info logs a normal-level message unless quiet.
func (l *Logger) Info(msg string, args ...any) {
	if l.quiet {
		return
	}
	l.log.Info(l.tag(msg), args...)
}

// Verbose logs per-file detail when verbose is on and quiet is off.
func (l *Logger) Verbose(msg string, args ...any) {
	if l.quiet || !l.verbose {
		return
	}
	l.log.Debug(l.tag(msg), args...)
}

// Warn always logs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(l.tag(msg), args...)
}

// Error always logs.
func (l *Logger) Error(msg string, args ...any) {
	l.log.Error(l.tag(msg), args...)
}

// Printf writes report text as-is unless quiet. A trailing newline is added
// when missing.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	s := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = io.WriteString(l.out, s)
}

// IsVerbose reports whether verbose detail will be emitted.
func (l *Logger) IsVerbose() bool { return l.verbose && !l.quiet }

func (l *Logger) tag(msg string) string {
	if l.prefix == "" {
		return msg
	}
	return l.prefix + " " + msg
}
