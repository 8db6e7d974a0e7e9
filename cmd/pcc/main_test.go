package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/diaglog"
)

func TestRunWritesAssemblyFileOnSuccess(t *testing.T) {
	dir := t.TempDir()
	vmAPI := filepath.Join(dir, "vm_api.h")
	require.NoError(t, os.WriteFile(vmAPI, []byte("extern void exit(int status);\n"), 0o644))
	src := filepath.Join(dir, "t.c")
	require.NoError(t, os.WriteFile(src, []byte("void main(void) { exit(0); }\n"), 0o644))
	outPath := filepath.Join(dir, "t.s")

	var log diaglog.Logger
	opts := newCompileOptions()
	err := run([]string{src}, vmAPI, outPath, opts, &log)
	require.NoError(t, err)

	out, rerr := os.ReadFile(outPath)
	require.NoError(t, rerr)
	assert.Contains(t, string(out), "HALT 0")
	assert.Equal(t, 0, log.ExitCode())
}

func TestRunReportsParseErrorWithoutWritingOutput(t *testing.T) {
	dir := t.TempDir()
	vmAPI := filepath.Join(dir, "vm_api.h")
	require.NoError(t, os.WriteFile(vmAPI, []byte(""), 0o644))
	src := filepath.Join(dir, "bad.c")
	require.NoError(t, os.WriteFile(src, []byte("void main(void) { int x = ; }\n"), 0o644))
	outPath := filepath.Join(dir, "bad.s")

	var log diaglog.Logger
	log.SetOutput(os.Stderr)
	opts := newCompileOptions()
	err := run([]string{src}, vmAPI, outPath, opts, &log)
	require.NoError(t, err)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReturnsErrorOnMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	vmAPI := filepath.Join(dir, "vm_api.h")
	require.NoError(t, os.WriteFile(vmAPI, []byte(""), 0o644))
	opts := newCompileOptions()
	var log diaglog.Logger
	err := run([]string{filepath.Join(dir, "missing.c")}, vmAPI, filepath.Join(dir, "out.s"), opts, &log)
	assert.Error(t, err)
}
