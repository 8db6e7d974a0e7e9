package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chschnell/pcc/internal/lower"
)

func TestDefaultOptionsReduceOnEverythingElseOff(t *testing.T) {
	co := newCompileOptions()
	assert.True(t, co.reduce)
	assert.False(t, co.comments)
	assert.False(t, co.dump)
	assert.False(t, co.extendedISA)
	assert.False(t, co.memReport)
}

func TestWithoutReduceDisablesReduce(t *testing.T) {
	co := newCompileOptions(WithoutReduce())
	assert.False(t, co.reduce)
}

func TestWithCommentsAndDumpAndMemReport(t *testing.T) {
	co := newCompileOptions(WithComments(true), WithDump(true), WithMemReport(true))
	assert.True(t, co.comments)
	assert.True(t, co.dump)
	assert.True(t, co.memReport)
}

func TestWithOutputSetsWriter(t *testing.T) {
	var buf bytes.Buffer
	co := newCompileOptions(WithOutput(&buf))
	assert.Same(t, &buf, co.output)
}

func TestDialectSelection(t *testing.T) {
	classic := newCompileOptions()
	assert.Equal(t, lower.DialectClassic, classic.dialect())

	extended := newCompileOptions(WithExtendedISA(true))
	assert.Equal(t, lower.DialectExtended, extended.dialect())
}
