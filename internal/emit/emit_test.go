package emit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/emit"
	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

func TestEmitRendersLabelsAsTagLines(t *testing.T) {
	pool := &ir.Pool{}
	tag := pool.NewTag()
	buf := ir.NewBuffer("main")
	buf.Tag(tag)
	buf.Append("RET")

	bindings := ir.NewBindings()
	bindings.BindTag(tag, 10)

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, nil, emit.Options{}))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "TAG 10", lines[0])
	assert.Equal(t, "    RET", lines[1])
}

func TestEmitRendersVarOperandAsSlotNumber(t *testing.T) {
	pool := &ir.Pool{}
	v := pool.NewVar()
	buf := ir.NewBuffer("main")
	buf.Append("STA", ir.VarOperand(v))

	bindings := ir.NewBindings()
	bindings.BindVar(v, 4)

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, nil, emit.Options{}))
	assert.Contains(t, out.String(), "STA   v4")
}

func TestEmitRendersParamOperandVerbatim(t *testing.T) {
	buf := ir.NewBuffer("main")
	buf.Append("WRITE", ir.ParamOperand("p0"), ir.IntOperand("1"))

	bindings := ir.NewBindings()

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, nil, emit.Options{}))
	assert.Contains(t, out.String(), "p0")
}

func TestEmitWithoutCommentsOmitsVarHeaderAndComments(t *testing.T) {
	pool := &ir.Pool{}
	v := pool.NewVar()
	buf := ir.NewBuffer("main")
	buf.AppendComment("LDA", "load it", ir.VarOperand(v))

	bindings := ir.NewBindings()
	bindings.BindVar(v, 4)

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, nil, emit.Options{Comments: false}))
	text := out.String()
	assert.NotContains(t, text, "; variables:")
	assert.NotContains(t, text, "load it")
}

func TestEmitWithCommentsIncludesVarHeaderAndInlineComments(t *testing.T) {
	pool := &ir.Pool{}
	v := pool.NewVar()
	buf := ir.NewBuffer("main")
	buf.AppendComment("LDA", "load it", ir.VarOperand(v))

	bindings := ir.NewBindings()
	bindings.BindVar(v, 4)

	vars := map[ir.VarHandle]*symtab.Var{
		v: {Handle: v, Name: "x", File: "t.c", Line: 3, Col: 2},
	}

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, vars, emit.Options{Comments: true}))
	text := out.String()
	assert.Contains(t, text, "; variables:")
	assert.Contains(t, text, "v4")
	assert.Contains(t, text, "t.c:3:2")
	assert.Contains(t, text, "; load it")
}

func TestEmitReservedSlotNamesInVarHeader(t *testing.T) {
	pool := &ir.Pool{}
	scr0 := pool.NewVar()
	buf := ir.NewBuffer("main")
	buf.Append("RET")

	bindings := ir.NewBindings()
	bindings.BindVar(scr0, 0)

	var out bytes.Buffer
	require.NoError(t, emit.Emit(&out, []*ir.InstrBuffer{buf}, bindings, map[ir.VarHandle]*symtab.Var{}, emit.Options{Comments: true}))
	assert.Contains(t, out.String(), "SCR0")
}
