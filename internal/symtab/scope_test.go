package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/ir"
	"github.com/chschnell/pcc/internal/symtab"
)

func TestScopeBindAndLookup(t *testing.T) {
	s := symtab.NewScope()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst, EnumValue: "1"}))

	sym, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, symtab.KindEnumConst, sym.Kind)
}

func TestScopeInnerShadowsOuterButLookupSeesBoth(t *testing.T) {
	s := symtab.NewScope()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst, EnumValue: "1"}))

	s.Push()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst, EnumValue: "2"}))
	sym, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "2", sym.EnumValue, "innermost binding wins")

	s.Pop()
	sym, ok = s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "1", sym.EnumValue, "outer binding still visible after inner scope closes")
}

func TestScopeRedefinitionInSameFrameFails(t *testing.T) {
	s := symtab.NewScope()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst}))
	err := s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst})
	assert.Error(t, err)
}

func TestScopeRedefinitionAcrossFramesIsAllowed(t *testing.T) {
	s := symtab.NewScope()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst}))
	s.Push()
	assert.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst}), "inner scope may shadow outer")
}

func TestScopeLookupLocalDoesNotSeeOuter(t *testing.T) {
	s := symtab.NewScope()
	require.NoError(t, s.Bind(symtab.Symbol{Name: "x", Kind: symtab.KindEnumConst}))
	s.Push()
	_, ok := s.LookupLocal("x")
	assert.False(t, ok)
}

func TestScopeDepthAndAtFileScope(t *testing.T) {
	s := symtab.NewScope()
	assert.Equal(t, 1, s.Depth())
	assert.True(t, s.AtFileScope())
	s.Push()
	assert.Equal(t, 2, s.Depth())
	assert.False(t, s.AtFileScope())
}

func TestPrototypeEqual(t *testing.T) {
	a := symtab.Prototype{Return: symtab.TypeInt, Args: []symtab.Type{symtab.TypeInt, symtab.TypeLong}}
	b := symtab.Prototype{Return: symtab.TypeInt, Args: []symtab.Type{symtab.TypeInt, symtab.TypeLong}}
	c := symtab.Prototype{Return: symtab.TypeVoid, Args: []symtab.Type{symtab.TypeInt, symtab.TypeLong}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestVarQualifiedName(t *testing.T) {
	global := &symtab.Var{Name: "g"}
	assert.Equal(t, "g", global.QualifiedName())

	owner := &symtab.UserFunc{Name: "f"}
	local := &symtab.Var{Name: "x", Owner: owner}
	assert.Equal(t, "f.x", local.QualifiedName())
}

func TestVMFuncRemapFor(t *testing.T) {
	vf := &symtab.VMFunc{
		Remaps: []symtab.ArgLiteralRemap{{ArgIndex: 1, Table: map[int]string{0: "R"}}},
	}
	r, ok := vf.RemapFor(1)
	require.True(t, ok)
	assert.Equal(t, "R", r.Table[0])

	_, ok = vf.RemapFor(0)
	assert.False(t, ok)
}

func TestUserFuncCallersAndReachable(t *testing.T) {
	pool := &ir.Pool{}
	uf := symtab.NewUserFunc("f", symtab.Prototype{}, pool)
	assert.False(t, uf.Reachable())
	uf.AddCaller("main")
	assert.True(t, uf.Reachable())
}
