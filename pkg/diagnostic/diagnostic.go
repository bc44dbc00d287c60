// Package diagnostic turns parse failures into positioned, formatted
// diagnostics for CLI and editor consumption.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/tmplc/pkg/parser"
	"github.com/walteh/tmplc/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
)

// Diagnostic is a single positioned message. Lines and columns are
// zero-based; columns count grapheme clusters. The end position closes the
// half-open range the message covers and equals the start when the source
// error carries no token extent.
type Diagnostic struct {
	Message  string             `json:"message"`
	Line     int                `json:"line"`
	Column   int                `json:"column"`
	EndLine  int                `json:"end_line"`
	EndCol   int                `json:"end_col"`
	Severity DiagnosticSeverity `json:"severity"`
}

// Diagnostics is everything reported for one file.
type Diagnostics struct {
	File    string       `json:"file"`
	Entries []Diagnostic `json:"diagnostics"`
}

// FromParseError converts a parser failure on src into diagnostics for file.
// A *parser.Error carries an exact offset; any other error becomes a
// position-less diagnostic at the start of the file.
func FromParseError(file, src string, err error) *Diagnostics {
	d := &Diagnostics{File: file}
	if err == nil {
		return d
	}

	var perr *parser.Error
	if errors.As(err, &perr) {
		rng := position.NewBasicPosition("", perr.Offset).GetRange(src)
		d.Entries = append(d.Entries, Diagnostic{
			Message:  perr.Message,
			Line:     rng.Start.Line,
			Column:   rng.Start.Character,
			EndLine:  rng.End.Line,
			EndCol:   rng.End.Character,
			Severity: Error,
		})
		return d
	}

	d.Entries = append(d.Entries, Diagnostic{Message: err.Error(), Severity: Error})
	return d
}

// HasErrors reports whether any entry has error severity.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.Entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Format renders the diagnostics in the requested format: "text" (human,
// colored), "json", or "vscode" (one one-based
// `file:line:col-endline:endcol: severity: message` line per entry,
// parseable as a problem matcher).
func (d *Diagnostics) Format(format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return "", errors.Errorf("marshaling diagnostics: %w", err)
		}
		return string(out) + "\n", nil

	case "vscode":
		var sb strings.Builder
		for _, e := range d.Entries {
			fmt.Fprintf(&sb, "%s:%d:%d-%d:%d: %s: %s\n",
				d.File, e.Line+1, e.Column+1, e.EndLine+1, e.EndCol+1, e.Severity, e.Message)
		}
		return sb.String(), nil

	case "text":
		var sb strings.Builder
		for _, e := range d.Entries {
			level := string(e.Severity)
			switch e.Severity {
			case Error:
				level = color.New(color.FgRed, color.Bold).Sprint(level)
			case Warning:
				level = color.New(color.FgYellow).Sprint(level)
			case Info:
				level = color.New(color.FgCyan).Sprint(level)
			}
			fmt.Fprintf(&sb, "%s: %s (%s, line %d, column %d)\n", level, e.Message, d.File, e.Line+1, e.Column+1)
		}
		return sb.String(), nil

	default:
		return "", errors.Errorf("unknown diagnostics format %q", format)
	}
}
