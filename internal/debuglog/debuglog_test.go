package debuglog

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogRespectsEnabledFlag(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	os.Unsetenv("DEBUG")
	prev := EnableDebug
	EnableDebug = "false"
	defer func() { EnableDebug = prev }()

	Log("graph", "emitted %d nodes", 3)
	require.Empty(t, buf.String())

	EnableDebug = "true"
	Log("graph", "emitted %d nodes", 3)
	require.Contains(t, buf.String(), "[graph] emitted 3 nodes")
}

func TestWarnAlwaysWrites(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	prev := EnableDebug
	EnableDebug = "false"
	defer func() { EnableDebug = prev }()

	Warn("pipeline", "queue is %d%% full", 85)
	require.Contains(t, buf.String(), "[pipeline:warn] queue is 85% full")
}
