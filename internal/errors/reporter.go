package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a diagnostic.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Diagnostic is a located, user facing message with optional hints.
type Diagnostic struct {
	Level       Level
	Code        string
	Message     string
	Position    Position
	Length      int
	Suggestions []string
	Notes       []string
}

// Reporter renders diagnostics against the text they refer to.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders d in the style
//
//	error[L0001]: unrecognized character '#'
//	    --> calc.txt:1:3
//	     |
//	   1 | 1 # 2
//	     |   ^
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder

	levelColor := levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(d.Level)), d.Message)
	}

	width := lineNumberWidth(d.Position.Line)
	indent := strings.Repeat(" ", width)

	switch {
	case d.Position.Line <= 0:
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("-->"), r.filename)
	case d.Position.Column <= 0:
		fmt.Fprintf(&b, "%s %s %s:%d\n", indent, dim("-->"), r.filename, d.Position.Line)
	default:
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, d.Position.Line, d.Position.Column)
	}

	if d.Position.Line > 0 && d.Position.Line <= len(r.lines) {
		fmt.Fprintf(&b, "%s %s\n", indent, dim("|"))
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, d.Position.Line)), dim("|"), r.lines[d.Position.Line-1])
		if d.Position.Column > 0 {
			fmt.Fprintf(&b, "%s %s %s\n", indent, dim("|"), marker(d.Position.Column, d.Length, levelColor))
		}
	}

	hint := color.New(color.FgCyan).SprintFunc()
	for _, s := range d.Suggestions {
		fmt.Fprintf(&b, "%s %s %s\n", indent, hint("help:"), s)
	}

	note := color.New(color.FgBlue).SprintFunc()
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "%s %s %s\n", indent, note("note:"), n)
	}

	b.WriteString("\n")
	return b.String()
}

func levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func marker(column, length int, paint func(...interface{}) string) string {
	if length <= 0 {
		length = 1
	}
	return strings.Repeat(" ", max(0, column-1)) + paint(strings.Repeat("^", length))
}

func lineNumberWidth(line int) int {
	// minimum width keeps the gutter aligned for short files
	return max(3, len(fmt.Sprintf("%d", line)))
}
