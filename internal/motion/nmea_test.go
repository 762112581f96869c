package motion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_recorder/internal/gps"
)

func fixAt(sec int, lat, speedKn, course float64, validity string) gps.Fix {
	return gps.Fix{
		Stamp:      time.Date(2026, time.May, 4, 12, 0, sec, 0, time.UTC),
		Latitude:   lat,
		Longitude:  11.5,
		SpeedKnots: speedKn,
		CourseDeg:  course,
		Validity:   validity,
	}
}

func TestFromFixes(t *testing.T) {
	fixes := []gps.Fix{
		fixAt(0, 48.1, 10, 80, "A"),
		fixAt(1, 48.1001, 10, 80, "V"), // void, dropped
		fixAt(2, 48.1002, 12, 85, "A"),
		fixAt(2, 48.1002, 12, 85, "A"), // duplicate stamp, no usable delta
		fixAt(5, 48.1004, 8, 90, "A"),
	}

	def, err := FromFixes(fixes)
	require.NoError(t, err)

	assert.Equal(t, 48.1, def.LatDeg)
	assert.Equal(t, 11.5, def.LonDeg)
	assert.InDelta(t, 10*1852.0/3600.0, def.Vel0[0], 1e-9)
	assert.Equal(t, [3]float64{80, 0, 0}, def.Att0)

	// void fix dropped, duplicate stamp contributes no command
	require.Len(t, def.Commands, 2)
	for _, c := range def.Commands {
		assert.Equal(t, TypeTarget, c.Type)
		assert.True(t, c.GPSVisible)
	}

	assert.Equal(t, 85.0, def.Commands[0].Yaw)
	assert.InDelta(t, 12*1852.0/3600.0, def.Commands[0].VX, 1e-9)
	assert.Equal(t, 2.0, def.Commands[0].Duration)

	assert.Equal(t, 90.0, def.Commands[1].Yaw)
	assert.InDelta(t, 8*1852.0/3600.0, def.Commands[1].VX, 1e-9)
	assert.Equal(t, 3.0, def.Commands[1].Duration)
}

func TestFromFixesNeedsTwoValid(t *testing.T) {
	_, err := FromFixes([]gps.Fix{
		fixAt(0, 48.1, 10, 80, "A"),
		fixAt(1, 48.1, 10, 80, "V"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 valid fixes")
}

func TestFromFixesNoUsableDeltas(t *testing.T) {
	_, err := FromFixes([]gps.Fix{
		fixAt(3, 48.1, 10, 80, "A"),
		fixAt(3, 48.1, 10, 80, "A"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable time deltas")
}

func TestFromNMEA(t *testing.T) {
	log := `$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A
$GPRMC,123520,A,4807.048,N,01131.000,E,022.4,084.4,230394,003.1,W*67
$GPRMC,123521,A,4807.038,N,01131.000,E,022.4,090.0,230394,003.1,W*60
`
	path := filepath.Join(t.TempDir(), "drive.nmea")
	require.NoError(t, os.WriteFile(path, []byte(log), 0o644))

	def, err := FromNMEA(path)
	require.NoError(t, err)

	assert.InDelta(t, 48.1173, def.LatDeg, 1e-6)
	require.Len(t, def.Commands, 2)
	assert.Equal(t, 1.0, def.Commands[0].Duration)
	assert.InDelta(t, 84.4, def.Commands[0].Yaw, 1e-9)
	assert.InDelta(t, 90.0, def.Commands[1].Yaw, 1e-9)
	assert.InDelta(t, 22.4*1852.0/3600.0, def.Commands[1].VX, 1e-9)
}

func TestFromNMEAMissingFile(t *testing.T) {
	_, err := FromNMEA(filepath.Join(t.TempDir(), "nope.nmea"))
	require.Error(t, err)
}
