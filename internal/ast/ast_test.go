package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/ast"
	"github.com/chschnell/pcc/internal/cparse"
)

func TestDumpRendersCallAndBinaryExpr(t *testing.T) {
	tu, err := cparse.Parse("t.c", `void main(void) { int x; x = 1 + 2; exit(x); }`)
	require.NoError(t, err)
	text := ast.Dump(tu)
	assert.Contains(t, text, "(= x (+ 1 2))")
	assert.Contains(t, text, "(exit x)")
}

func TestDumpRendersIfElse(t *testing.T) {
	tu, err := cparse.Parse("t.c", `void main(void) { if (1) { exit(0); } else { exit(1); } }`)
	require.NoError(t, err)
	text := ast.Dump(tu)
	assert.Contains(t, text, "(if 1")
	assert.Contains(t, text, "(exit 0)")
	assert.Contains(t, text, "(exit 1)")
}

func TestDumpRendersForLoopWithSemicolons(t *testing.T) {
	tu, err := cparse.Parse("t.c", `void main(void) { for (int i = 0; i < 10; i = i + 1) { exit(i); } }`)
	require.NoError(t, err)
	text := ast.Dump(tu)
	assert.Contains(t, text, "(for (var int i = 0) ; (< i 10) ; (= i (+ i 1))")
}

func TestDumpRendersEmptyReturn(t *testing.T) {
	tu, err := cparse.Parse("t.c", `void f(void) { return; }`)
	require.NoError(t, err)
	text := ast.Dump(tu)
	assert.Contains(t, text, "(return)")
}

func TestDumpRendersNilAsNilLiteral(t *testing.T) {
	assert.Equal(t, "nil", ast.Dump(nil))
}

func TestPosStringIsDashWhenFileEmpty(t *testing.T) {
	assert.Equal(t, "-", ast.Pos{}.String())
	assert.Equal(t, "t.c", ast.Pos{File: "t.c"}.String())
}
