// Package diag implements the source-line bundle and formatted diagnostic
// printer (spec §4.2, §7, §9): it keeps an ordered list of
// (filename, flat_start, flat_end) segments over a flat line numbering of
// all input files in order, and maps a flat position back to
// (file, local line) and the literal source line text on demand.
package diag

import "strings"

// Segment records one concatenated input file's span within the flat
// document, in 1-based flat line numbers, end-exclusive.
type Segment struct {
	File      string
	FlatStart int
	FlatEnd   int
}

// Bundle accumulates Segments as each loaded file is appended (cmd/pcc
// appends them in load order) and later resolves any flat line number back
// to its origin.
type Bundle struct {
	segments []Segment
	lines    []string // flat document split by line, 1-indexed via lines[n-1]
}

// Append records content as the next file in the flat document, returning
// the (1-based) flat line number its first line starts at. Lines is the
// running flat line store the caller should keep growing; Append both
// updates the segment table and appends content's lines to it.
func (b *Bundle) Append(file, content string) (flatStart int) {
	flatStart = len(b.lines) + 1
	split := strings.Split(content, "\n")
	if len(split) > 0 && split[len(split)-1] == "" {
		split = split[:len(split)-1]
	}
	b.lines = append(b.lines, split...)
	b.segments = append(b.segments, Segment{
		File:      file,
		FlatStart: flatStart,
		FlatEnd:   flatStart + len(split),
	})
	return flatStart
}

// Resolve maps a flat line number to its originating file and 1-based
// local line number within that file.
func (b *Bundle) Resolve(flatLine int) (file string, localLine int) {
	for _, seg := range b.segments {
		if flatLine >= seg.FlatStart && flatLine < seg.FlatEnd {
			return seg.File, flatLine - seg.FlatStart + 1
		}
	}
	return "", flatLine
}

// SourceLine returns the literal text of flat line n (empty if out of
// range), used to render the caret-pointed diagnostic line.
func (b *Bundle) SourceLine(flatLine int) string {
	if flatLine < 1 || flatLine > len(b.lines) {
		return ""
	}
	return b.lines[flatLine-1]
}

// SourceLineFor is the by-(file,local-line) convenience most callers want:
// PCC's own hand-rolled lexer already stamps every ast.Pos with its file,
// so diagnostics look the line up by name instead of re-deriving a flat
// number first.
func (b *Bundle) SourceLineFor(file string, localLine int) string {
	for _, seg := range b.segments {
		if seg.File == file {
			return b.SourceLine(seg.FlatStart + localLine - 1)
		}
	}
	return ""
}
