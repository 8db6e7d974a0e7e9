package srcload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chschnell/pcc/internal/srcload"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadPrependsHeaderWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	header := writeTemp(t, dir, "vm_api.h", "extern void gpioWrite(int, int);\n")
	main := writeTemp(t, dir, "main.c", "void main(void) {}\n")

	files, err := srcload.Load([]string{main}, header)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, header, files[0].Name)
	assert.Equal(t, main, files[1].Name)
	assert.Contains(t, files[0].Content, "gpioWrite")
}

func TestLoadDoesNotDuplicateExplicitlyListedHeader(t *testing.T) {
	dir := t.TempDir()
	header := writeTemp(t, dir, "vm_api.h", "extern void gpioWrite(int, int);\n")
	main := writeTemp(t, dir, "main.c", "void main(void) {}\n")

	files, err := srcload.Load([]string{header, main}, header)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, header, files[0].Name)
	assert.Equal(t, main, files[1].Name)
}

func TestLoadPreservesOrderOfMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	header := writeTemp(t, dir, "vm_api.h", "")
	a := writeTemp(t, dir, "a.c", "a-content")
	b := writeTemp(t, dir, "b.c", "b-content")

	files, err := srcload.Load([]string{header, a, b}, header)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a-content", files[1].Content)
	assert.Equal(t, "b-content", files[2].Content)
}

func TestLoadReturnsErrorOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	header := writeTemp(t, dir, "vm_api.h", "")
	_, err := srcload.Load([]string{filepath.Join(dir, "missing.c")}, header)
	assert.Error(t, err)
}
