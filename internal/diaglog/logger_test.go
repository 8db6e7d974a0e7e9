package diaglog_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chschnell/pcc/internal/diaglog"
)

func TestExitCodeZeroWithoutErrorf(t *testing.T) {
	var log diaglog.Logger
	var out bytes.Buffer
	log.SetOutput(&out)
	log.Printf("INFO", "hello %s", "world")
	assert.Equal(t, 0, log.ExitCode())
	assert.Contains(t, out.String(), "INFO: hello world")
}

func TestExitCodeNegativeOneAfterErrorf(t *testing.T) {
	var log diaglog.Logger
	var out bytes.Buffer
	log.SetOutput(&out)
	log.Errorf("bad: %d", 42)
	assert.Equal(t, -1, log.ExitCode())
	assert.Contains(t, out.String(), "ERROR: bad: 42")
}

func TestPrintfAppendsTrailingNewline(t *testing.T) {
	var log diaglog.Logger
	var out bytes.Buffer
	log.SetOutput(&out)
	log.Printf("", "no newline here")
	assert.Equal(t, "no newline here\n", out.String())
}

func TestLeveledfBindsLevel(t *testing.T) {
	var log diaglog.Logger
	var out bytes.Buffer
	log.SetOutput(&out)
	trace := log.Leveledf("TRACE")
	trace("step %d", 1)
	assert.Contains(t, out.String(), "TRACE: step 1")
}

func TestNoOutputSetDiscardsButStillTracksErrors(t *testing.T) {
	var log diaglog.Logger
	log.Errorf("vanished")
	assert.Equal(t, -1, log.ExitCode())
}
