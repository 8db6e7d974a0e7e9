package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/chschnell/pcc/internal/ast"
)

// Severity distinguishes the §7 taxonomy entries that reach the user:
// parse/semantic errors and warnings. Internal errors never become a
// Diagnostic; they panic instead (see cmd/pcc).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one source-located message.
type Diagnostic struct {
	Severity Severity
	Pos      ast.Pos
	Function string // enclosing function name, if any, for the preamble
	Message  string
}

// List batches diagnostics across an entire compilation (§7: batched, not
// fatal). Every reported diagnostic is kept, in report order. Warnings
// never increment the error count.
type List struct {
	items    []Diagnostic
	errCount int
}

func (l *List) Errorf(pos ast.Pos, fn, format string, args ...interface{}) {
	l.add(Error, pos, fn, fmt.Sprintf(format, args...))
}

func (l *List) Warnf(pos ast.Pos, fn, format string, args ...interface{}) {
	l.add(Warning, pos, fn, fmt.Sprintf(format, args...))
}

func (l *List) add(sev Severity, pos ast.Pos, fn, msg string) {
	l.items = append(l.items, Diagnostic{Severity: sev, Pos: pos, Function: fn, Message: msg})
	if sev == Error {
		l.errCount++
	}
}

func (l *List) ErrorCount() int { return l.errCount }
func (l *List) HasErrors() bool { return l.errCount > 0 }
func (l *List) Items() []Diagnostic { return l.items }

// Print renders every diagnostic in l to w in the §7 user-visible format:
//
//	<file>:<row>:<col>: error|warning: <message>
//	<source line>
//	<caret indent>^
//
// with a "<file>: In function "<name>":" preamble printed once per
// contiguous run of messages sharing the same function, exactly like gcc
// (and the Python original) group theirs.
func Print(w io.Writer, l *List, bundle *Bundle) {
	lastFn, lastFile := "", ""
	haveLast := false
	for _, d := range l.items {
		if !haveLast || d.Function != lastFn || d.Pos.File != lastFile {
			if d.Function != "" {
				fmt.Fprintf(w, "%s: In function %q:\n", d.Pos.File, d.Function)
			}
			lastFn, lastFile, haveLast = d.Function, d.Pos.File, true
		}

		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", d.Pos.File, d.Pos.Line, d.Pos.Col, d.Severity, d.Message)

		line := bundle.SourceLineFor(d.Pos.File, d.Pos.Line)
		if line == "" {
			continue
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w, caret(line, d.Pos.Col))
	}
}

func caret(line string, col int) string {
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	indent := make([]byte, 0, col)
	for i := 1; i < col; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			indent = append(indent, '\t')
		} else {
			indent = append(indent, ' ')
		}
	}
	var b strings.Builder
	b.Write(indent)
	b.WriteString("^")
	return b.String()
}
