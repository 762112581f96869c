package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_recorder/internal/motion"
)

func TestRunConvert(t *testing.T) {
	nmeaLog := `$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A
$GPRMC,123520,A,4807.048,N,01131.000,E,022.4,084.4,230394,003.1,W*67
$GPRMC,123521,A,4807.038,N,01131.000,E,022.4,090.0,230394,003.1,W*60
`
	tmp := t.TempDir()
	in := filepath.Join(tmp, "drive.nmea")
	out := filepath.Join(tmp, "drive_motion.csv")
	require.NoError(t, os.WriteFile(in, []byte(nmeaLog), 0o644))

	require.NoError(t, RunConvert(in, out))

	def, err := motion.Load(out)
	require.NoError(t, err)
	assert.InDelta(t, 48.1173, def.LatDeg, 1e-6)
	require.Len(t, def.Commands, 2)
	assert.Equal(t, motion.TypeTarget, def.Commands[0].Type)
	assert.InDelta(t, 84.4, def.Commands[0].Yaw, 1e-9)
	assert.InDelta(t, 90.0, def.Commands[1].Yaw, 1e-9)
}

func TestRunConvertMissingInput(t *testing.T) {
	tmp := t.TempDir()
	err := RunConvert(filepath.Join(tmp, "nope.nmea"), filepath.Join(tmp, "out.csv"))
	require.Error(t, err)
}
