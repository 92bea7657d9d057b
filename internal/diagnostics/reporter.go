package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter renders CoreErrors against their originating source so a
// terminal sees a source-line-and-caret view instead of a bare message.
// Colors are only emitted when the destination looks like a real
// terminal.
type Reporter struct {
	filename string
	lines    []string
	colorize bool
}

// NewReporter builds a Reporter for filename/source, deciding whether to
// colorize by checking whether w is a terminal.
func NewReporter(w io.Writer, filename, source string) *Reporter {
	colorize := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
		colorize: colorize,
	}
}

// Report formats a single CoreError as a source-context block:
//
//	file.c:3:5: type mismatch: cannot assign char to int
//	   |
//	 3 | x = 'a';
//	   |     ^
func (r *Reporter) Report(w io.Writer, err CoreError) {
	bold := r.sprint(color.Bold)
	red := r.sprint(color.FgRed, color.Bold)

	pos := err.Position()
	fmt.Fprintf(w, "%s: %s\n", bold(pos.String()), red(err.Kind().String())+": "+messageOf(err))

	line := pos.Line
	if line <= 0 || line > len(r.lines) {
		return
	}
	width := len(fmt.Sprintf("%d", line))
	if width < 2 {
		width = 2
	}
	indent := strings.Repeat(" ", width)
	dim := r.sprint(color.Faint)

	fmt.Fprintf(w, "%s %s\n", indent, dim("|"))
	fmt.Fprintf(w, "%*d %s %s\n", width, line, dim("|"), r.lines[line-1])
	caret := strings.Repeat(" ", max0(pos.Column-1)) + red("^")
	fmt.Fprintf(w, "%s %s %s\n", indent, dim("|"), caret)
}

// messageOf strips the "pos: kind: " prefix coreError.Error adds, so the
// reporter can lay out position and kind itself with its own styling.
func messageOf(err CoreError) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

func (r *Reporter) sprint(attrs ...color.Attribute) func(string) string {
	if !r.colorize {
		return func(s string) string { return s }
	}
	c := color.New(attrs...)
	return c.Sprint
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
