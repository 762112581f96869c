package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllan(t *testing.T) {
	cfg := recorderConfig(t)
	require.NoError(t, RunRecorder(cfg))

	bagDir := filepath.Join(cfg.OutputPath, cfg.OutputName)
	outDir := filepath.Join(t.TempDir(), "allan")
	require.NoError(t, RunAllan(cfg, bagDir, outDir, 10))

	for _, name := range []string{"allan_gyro.png", "allan_accel.png"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestRunAllanMissingBag(t *testing.T) {
	cfg := recorderConfig(t)
	err := RunAllan(cfg, filepath.Join(t.TempDir(), "nope.ibag"), t.TempDir(), 10)
	require.Error(t, err)
}

func TestRunAllanWrongChannel(t *testing.T) {
	cfg := recorderConfig(t)
	require.NoError(t, RunRecorder(cfg))

	bagDir := filepath.Join(cfg.OutputPath, cfg.OutputName)
	cfg.TopicIMU = "sim/other"
	err := RunAllan(cfg, bagDir, t.TempDir(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no inertial samples")
}
