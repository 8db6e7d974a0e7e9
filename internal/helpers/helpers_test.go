package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/helpers"
	"github.com/chschnell/pcc/internal/ir"
)

func TestEntryMaterializesOncePerName(t *testing.T) {
	pool := &ir.Pool{}
	scr0 := pool.NewVar()
	lib := helpers.New(pool, scr0)

	e1 := lib.Entry(helpers.EQ)
	e2 := lib.Entry(helpers.EQ)
	assert.Equal(t, e1, e2, "second request for the same helper returns the same entry tag")

	require.Len(t, lib.Materialized(), 1)
}

func TestEntryMaterializesDistinctHelpersInRequestOrder(t *testing.T) {
	pool := &ir.Pool{}
	scr0 := pool.NewVar()
	lib := helpers.New(pool, scr0)

	lib.Entry(helpers.GT)
	lib.Entry(helpers.NEG)

	bufs := lib.Materialized()
	require.Len(t, bufs, 2)
	assert.Equal(t, "helper:GT", bufs[0].Name)
	assert.Equal(t, "helper:NEG", bufs[1].Name)
}

func TestEntryTagsMatchMaterializedEntries(t *testing.T) {
	pool := &ir.Pool{}
	scr0 := pool.NewVar()
	lib := helpers.New(pool, scr0)

	tag := lib.Entry(helpers.NOTL)
	tags := lib.EntryTags()
	require.Len(t, tags, 1)
	assert.Equal(t, tag, tags[0])
}

func TestHelperBodyStartsWithItsEntryLabel(t *testing.T) {
	pool := &ir.Pool{}
	scr0 := pool.NewVar()
	lib := helpers.New(pool, scr0)

	tag := lib.Entry(helpers.ANDL)
	buf := lib.Materialized()[0]
	stmts := buf.Statements()
	require.NotEmpty(t, stmts)
	require.True(t, stmts[0].IsLabel())
	assert.Equal(t, tag, stmts[0].Tag)
}

func TestEveryHelperBodyEndsInRet(t *testing.T) {
	names := []helpers.Name{
		helpers.NEG, helpers.NOT, helpers.NOTL, helpers.ANDL, helpers.ORL,
		helpers.EQ, helpers.NE, helpers.GT, helpers.GE, helpers.LT, helpers.LE,
	}
	for _, name := range names {
		name := name
		t.Run(string(name), func(t *testing.T) {
			pool := &ir.Pool{}
			scr0 := pool.NewVar()
			lib := helpers.New(pool, scr0)
			lib.Entry(name)
			buf := lib.Materialized()[0]
			stmts := buf.Statements()
			require.NotEmpty(t, stmts)
			last := stmts[len(stmts)-1]
			require.False(t, last.IsLabel())
			assert.Equal(t, "RET", last.Instr.Mnemonic)
		})
	}
}
