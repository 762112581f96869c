package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunConsoleDumpsBag(t *testing.T) {
	cfg := recorderConfig(t)
	cfg.FSGPS = 10 // keep the dump short
	require.NoError(t, RunRecorder(cfg))

	require.NoError(t, RunConsole(cfg, filepath.Join(cfg.OutputPath, cfg.OutputName)))
}

func TestRunConsoleMissingBag(t *testing.T) {
	cfg := recorderConfig(t)
	require.Error(t, RunConsole(cfg, filepath.Join(t.TempDir(), "nope.ibag")))
}
