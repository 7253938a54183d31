package runconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	config "github.com/rv32ucore/rv32ucore/config/configparser"
	"github.com/rv32ucore/rv32ucore/config/runconfig"
)

// The grammar's option-value token only accepts letters and digits (see
// configparser's parseFirst/getName), so TRACEFILE's value here must be a
// bare alphanumeric name, written and read back relative to the test's
// working directory rather than through an absolute temp path.
func TestConfigLineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rv32ucore.cfg")

	traceName := "rvtracetestfile"
	debugName := "rvdebugtestfile"
	wd, err := os.Getwd()
	require.NoError(t, err)
	tracePath := filepath.Join(wd, traceName)
	debugPath := filepath.Join(wd, debugName)
	defer os.Remove(tracePath)
	defer os.Remove(debugPath)

	content := "MEMSIZE 64K\n" +
		"MTVEC 0x80000000\n" +
		"DEBUG CPU trap\n" +
		"TRACEFILE " + traceName + "\n" +
		"DEBUGFILE " + debugName + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	require.NoError(t, config.LoadConfigFile(cfgPath))

	require.EqualValues(t, 64*1024, runconfig.MemSize)
	require.Equal(t, uint32(0x80000000), runconfig.MtvecReset)
	require.NotZero(t, runconfig.CPUMask)
	require.NotNil(t, runconfig.TraceFile)

	_, statErr := os.Stat(tracePath)
	require.NoError(t, statErr)

	_, statErr = os.Stat(debugPath)
	require.NoError(t, statErr)
}

func TestConfigLineUnknownDebugSubsystemFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.cfg")
	require.NoError(t, os.WriteFile(cfgPath, []byte("DEBUG WAT trap\n"), 0o644))

	err := config.LoadConfigFile(cfgPath)
	require.Error(t, err)
}
