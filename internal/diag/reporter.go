package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/xirdlcheck/xirdlcheck/internal/ir"
)

// Position is a 1-based line/column span, as produced by internal/synfmt's
// parser for every parsed operation.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// PositionLookup resolves an operation back to the source span it was
// parsed from. A nil lookup (or a miss) degrades to an unanchored message.
type PositionLookup interface {
	Position(*ir.Operation) (Position, bool)
}

// Reporter prints caret-anchored diagnostics, grounded on kanso's
// cmd/kanso-cli reportParseError: a colorized header, the offending
// source line, and a caret under the column.
type Reporter struct {
	Out    io.Writer
	Source string
	Lookup PositionLookup
	NoColor bool
}

func NewReporter(out io.Writer, source string, lookup PositionLookup) *Reporter {
	return &Reporter{Out: out, Source: source, Lookup: lookup}
}

func (r *Reporter) Report(v Verdict) {
	if v.IsOK() {
		fmt.Fprintln(r.Out, color.GreenString("OK"))
		return
	}
	r.ReportAbort(v.Abort)
}

func (r *Reporter) ReportAbort(a *Abort) {
	header := color.New(color.FgRed, color.Bold)
	if r.NoColor {
		header.DisableColor()
	}
	if a.Op == nil || r.Lookup == nil {
		header.Fprintf(r.Out, "%s: %s\n", a.Kind.Code(), a.Msg)
		return
	}
	pos, ok := r.Lookup.Position(a.Op)
	if !ok {
		header.Fprintf(r.Out, "%s: %s (op %q)\n", a.Kind.Code(), a.Msg, a.Op.Name)
		return
	}
	header.Fprintf(r.Out, "%s: %s\n", a.Kind.Code(), a.Msg)
	fmt.Fprintf(r.Out, "  --> %s:%d:%d\n", pos.Filename, pos.Line, pos.Column)
	lines := strings.Split(r.Source, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return
	}
	line := lines[pos.Line-1]
	fmt.Fprintf(r.Out, "    %s\n", line)
	caret := strings.Repeat(" ", pos.Column-1) + "^"
	fmt.Fprintf(r.Out, "    %s\n", color.RedString(caret))
}
