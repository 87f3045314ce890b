package rlog_test

import (
	"bytes"
	"testing"

	"github.com/refactorkit/refactorkit/rlog"
	"github.com/stretchr/testify/assert"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := rlog.NewWithWriter(rlog.LevelQuiet, &buf)

	l.Progress("hello %s", "world")
	assert.Empty(t, buf.String())

	l.Warning("uh oh")
	assert.Contains(t, buf.String(), "Warning: uh oh")
}

func TestVerboseAndDebug(t *testing.T) {
	var buf bytes.Buffer
	l := rlog.NewWithWriter(rlog.LevelDebug, &buf)

	l.Progress("walking project")
	l.Debug("parsed %d files", 3)

	out := buf.String()
	assert.Contains(t, out, "walking project")
	assert.Contains(t, out, "parsed 3 files")
}
