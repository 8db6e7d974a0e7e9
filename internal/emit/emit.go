// Package emit renders the final sequence of bound InstrBuffers as the
// VM's textual assembly language (spec §4.8).
package emit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

// Options controls optional emitter behavior (the -c CLI flag, §6).
type Options struct {
	Comments bool
}

const commentColumn = 25

// Emit writes every buffer in buffers to w, in order, using bindings to
// resolve every VarHandle/TagHandle operand to its final integer. vars
// supplies the -c variable-slot header block's source coordinates and
// qualified names, keyed by the same VarHandle bindings uses.
func Emit(w io.Writer, buffers []*ir.InstrBuffer, bindings *ir.Bindings, vars map[ir.VarHandle]*symtab.Var, opts Options) error {
	bw := &errWriter{w: w}

	if opts.Comments {
		writeVarHeader(bw, bindings, vars)
	}

	for _, buf := range buffers {
		for _, st := range buf.Statements() {
			if st.IsLabel() {
				n, _ := bindings.TagNumber(st.Tag)
				fmt.Fprintf(bw, "TAG %d\n", n)
				continue
			}
			writeInstr(bw, st.Instr, bindings, opts)
		}
	}
	return bw.err
}

func writeInstr(bw *errWriter, in ir.Instr, bindings *ir.Bindings, opts Options) {
	operands := make([]string, len(in.Operands))
	for i, op := range in.Operands {
		operands[i] = renderOperand(op, bindings)
	}
	line := fmt.Sprintf("    %-5s", in.Mnemonic)
	if len(operands) > 0 {
		line += " " + strings.Join(operands, " ")
	}
	if opts.Comments && in.Comment != "" {
		if len(line) < commentColumn {
			line += strings.Repeat(" ", commentColumn-len(line))
		} else {
			line += " "
		}
		line += "; " + in.Comment
	}
	fmt.Fprintln(bw, line)
}

func renderOperand(op ir.Operand, bindings *ir.Bindings) string {
	switch op.Kind {
	case ir.OperandInt:
		return op.Int
	case ir.OperandString:
		return op.Str
	case ir.OperandParam:
		return op.Param
	case ir.OperandVar:
		n, _ := bindings.VarSlot(op.Var)
		return fmt.Sprintf("v%d", n)
	case ir.OperandTag:
		n, _ := bindings.TagNumber(op.Tag)
		return fmt.Sprintf("%d", n)
	}
	return ""
}

// writeVarHeader renders the -c leading block listing every bound
// variable's slot, source coordinate, and qualified name (§4.8,
// SPEC_FULL.md supplemented feature 4). Reserved slots (no symtab.Var
// entry, e.g. SCR0/ARG0-2) are listed with a synthetic name.
func writeVarHeader(bw *errWriter, bindings *ir.Bindings, vars map[ir.VarHandle]*symtab.Var) {
	type row struct {
		slot int
		name string
		loc  string
	}
	rows := make([]row, 0, len(bindings.Vars))
	for h, slot := range bindings.Vars {
		name, loc := reservedName(slot), ""
		if sv, ok := vars[h]; ok {
			name = sv.QualifiedName()
			if sv.File != "" {
				loc = fmt.Sprintf("%s:%d:%d", sv.File, sv.Line, sv.Col)
			}
		}
		rows = append(rows, row{slot: slot, name: name, loc: loc})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].slot < rows[j].slot })

	fmt.Fprintln(bw, "; variables:")
	for _, r := range rows {
		if r.loc != "" {
			fmt.Fprintf(bw, "; v%-3d %-24s %s\n", r.slot, r.name, r.loc)
		} else {
			fmt.Fprintf(bw, "; v%-3d %s\n", r.slot, r.name)
		}
	}
}

func reservedName(slot int) string {
	switch slot {
	case 0:
		return "SCR0"
	case 1:
		return "ARG0"
	case 2:
		return "ARG1"
	case 3:
		return "ARG2"
	default:
		return ""
	}
}

// errWriter wraps io.Writer, latching the first write error so callers
// don't have to check every Fprint* individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
