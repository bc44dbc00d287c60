// Package debug configures zerolog console logging for the CLI.
package debug

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// NewConsoleLogger builds a human-readable zerolog logger writing to w.
// Verbose enables debug-level output.
func NewConsoleLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
		FormatCaller: func(i interface{}) string {
			caller, ok := i.(string)
			if !ok || caller == "" {
				return ""
			}
			return FormatCaller(caller, color.NoColor == false)
		},
	}

	return zerolog.New(cw).Level(level).With().Caller().Logger().
		Hook(CustomTimeHook{Format: "15:04:05.000"})
}

// FormatCaller shortens a `dir/file.go:123` caller to `file.go:123`,
// optionally colorized.
func FormatCaller(caller string, colorize bool) string {
	path := caller
	line := ""
	if idx := strings.LastIndexByte(caller, ':'); idx >= 0 {
		path, line = caller[:idx], caller[idx+1:]
	}
	file := FileNameOfPath(path)

	if colorize {
		f := color.New(color.Bold).Sprint(file)
		sep := color.New(color.Faint).Sprint(":")
		num := color.New(color.FgHiRed, color.Bold).Sprint(line)
		return fmt.Sprintf("%s%s%s", f, sep, num)
	}
	if line == "" {
		return file
	}
	return fmt.Sprintf("%s:%s", file, line)
}

// FileNameOfPath returns the last element of a slash-separated path.
func FileNameOfPath(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// CustomTimeHook stamps events with a fixed-precision wall-clock time.
type CustomTimeHook struct {
	Format string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = "2006-01-02T15:04:05.0000Z"
	}
	e.Str("time", time.Now().Format(format))
}
