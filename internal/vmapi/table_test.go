package vmapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/symtab"
	"github.com/chschnell/pcc/internal/vmapi"
)

func TestLookupKnownFunction(t *testing.T) {
	e, ok := vmapi.Lookup("gpioWrite")
	require.True(t, ok)
	assert.Equal(t, "WRITE", e.Mnemonic)
	assert.Len(t, e.Args, 2)
	assert.Equal(t, symtab.TypeVoid, e.Return)
}

func TestLookupUnknownFunction(t *testing.T) {
	_, ok := vmapi.Lookup("notAFunction")
	assert.False(t, ok)
}

func TestGpioSetModeHasModeRemapOnSecondArg(t *testing.T) {
	e, ok := vmapi.Lookup("gpioSetMode")
	require.True(t, ok)
	require.Len(t, e.Remaps, 1)
	assert.Equal(t, 1, e.Remaps[0].ArgIndex)
	assert.Equal(t, "R", e.Remaps[0].Table[0])
	assert.Equal(t, "W", e.Remaps[0].Table[1])
}

func TestGpioSetPullUpDownHasPudRemapOnSecondArg(t *testing.T) {
	e, ok := vmapi.Lookup("gpioSetPullUpDown")
	require.True(t, ok)
	require.Len(t, e.Remaps, 1)
	assert.Equal(t, "O", e.Remaps[0].Table[0])
	assert.Equal(t, "D", e.Remaps[0].Table[1])
	assert.Equal(t, "U", e.Remaps[0].Table[2])
}

func TestExitMapsToHalt(t *testing.T) {
	e, ok := vmapi.Lookup("exit")
	require.True(t, ok)
	assert.Equal(t, "HALT", e.Mnemonic)
	assert.Len(t, e.Args, 1)
}

func TestZeroArgFunctionsHaveEmptyArgList(t *testing.T) {
	e, ok := vmapi.Lookup("gpioNotifyOpen")
	require.True(t, ok)
	assert.Empty(t, e.Args)
}

func TestNoDuplicateFunctionNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range vmapi.Table {
		assert.False(t, seen[e.Name], "duplicate entry for %q", e.Name)
		seen[e.Name] = true
	}
}
