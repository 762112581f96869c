package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
	"github.com/relabs-tech/inertial_recorder/internal/geo"
	"github.com/relabs-tech/inertial_recorder/internal/motion"
)

func stationaryDef(durationS float64) *motion.Definition {
	return &motion.Definition{
		LatDeg: 32, LonDeg: 120, AltM: 0,
		Commands: []motion.Command{
			{Type: motion.TypeRate, Duration: durationS, GPSVisible: true},
		},
	}
}

func TestRunSeriesLengths(t *testing.T) {
	out, err := Run(stationaryDef(2), errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10, Seed: 1})
	require.NoError(t, err)

	assert.Len(t, out.Gyro, 200)
	assert.Len(t, out.Accel, 200)
	assert.Len(t, out.Mag, 200)
	assert.Len(t, out.RefPos, 20)
	assert.Len(t, out.RefAtt, 20)
}

func TestRunStationaryIdeal(t *testing.T) {
	def := stationaryDef(1)
	out, err := Run(def, errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10, Seed: 1})
	require.NoError(t, err)

	g0 := geo.Param([3]float64{def.LatDeg * math.Pi / 180, def.LonDeg * math.Pi / 180, def.AltM}).Gravity

	for i, w := range out.Gyro {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, 0, w[k], 1e-15, "gyro sample %d axis %d", i, k)
		}
	}
	for i, f := range out.Accel {
		assert.InDelta(t, 0, f[0], 1e-12, "accel sample %d", i)
		assert.InDelta(t, 0, f[1], 1e-12, "accel sample %d", i)
		// at rest the accelerometer senses -g on the down axis
		assert.InDelta(t, -g0, f[2], 1e-9, "accel sample %d", i)
	}
	for i, m := range out.Mag {
		assert.InDelta(t, magFieldNED[0], m[0], 1e-9, "mag sample %d", i)
		assert.InDelta(t, magFieldNED[1], m[1], 1e-9, "mag sample %d", i)
		assert.InDelta(t, magFieldNED[2], m[2], 1e-9, "mag sample %d", i)
	}
	for i, p := range out.RefPos {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, 0, p[k], 1e-12, "ref pos %d axis %d", i, k)
		}
	}
	for i, q := range out.RefAtt {
		assert.InDelta(t, 1, q[0], 1e-12, "ref att %d", i)
	}
}

func TestRunConstantVelocityNorth(t *testing.T) {
	def := stationaryDef(2)
	def.Vel0 = [3]float64{1, 0, 0} // level attitude: body x is north

	out, err := Run(def, errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10, Seed: 1})
	require.NoError(t, err)

	// position advances north at 1 m/s; ref sample j sits at t = j/10 s
	for j, p := range out.RefPos {
		assert.InDelta(t, float64(j)/10.0, p[0], 1e-9, "ref %d north", j)
		assert.InDelta(t, 0, p[1], 1e-12, "ref %d east", j)
		assert.InDelta(t, 0, p[2], 1e-12, "ref %d down", j)
	}

	// unaccelerated: the accelerometer still senses gravity only
	g0 := geo.Param([3]float64{def.LatDeg * math.Pi / 180, 0, 0}).Gravity
	f := out.Accel[100]
	assert.InDelta(t, 0, f[0], 1e-9)
	assert.InDelta(t, -g0, f[2], 1e-9)
}

func TestRunYawRampGyro(t *testing.T) {
	def := stationaryDef(1)
	def.Commands = []motion.Command{
		{Type: motion.TypeTarget, Yaw: 90, Duration: 1, GPSVisible: true},
	}

	out, err := Run(def, errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10, Seed: 1})
	require.NoError(t, err)

	// level yaw ramp: the whole rate sits on the body z axis
	for _, i := range []int{1, 50, 99} {
		w := out.Gyro[i]
		assert.InDelta(t, 0, w[0], 1e-12)
		assert.InDelta(t, 0, w[1], 1e-12)
		assert.InDelta(t, math.Pi/2, w[2], 1e-12, "sample %d", i)
	}

	// attitude quaternions stay unit norm along the ramp
	for _, q := range out.RefAtt {
		norm := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
		assert.InDelta(t, 1, norm, 1e-12)
	}
}

func TestRunMagFollowsAttitude(t *testing.T) {
	def := stationaryDef(1)
	def.Att0 = [3]float64{90, 0, 0} // facing east

	out, err := Run(def, errmodel.Ideal(), Options{FSIMU: 10, FSRef: 10, Seed: 1})
	require.NoError(t, err)

	// field (22, 0, 43) seen from a yaw-90 body: north component moves to -y
	m := out.Mag[0]
	assert.InDelta(t, 0, m[0], 1e-9)
	assert.InDelta(t, -22, m[1], 1e-9)
	assert.InDelta(t, 43, m[2], 1e-9)
}

func TestRunSeedDeterminism(t *testing.T) {
	def := stationaryDef(1)
	opt := Options{FSIMU: 100, FSRef: 10, Seed: 42}

	a, err := Run(def, errmodel.Default(), opt)
	require.NoError(t, err)
	b, err := Run(def, errmodel.Default(), opt)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := Run(def, errmodel.Default(), Options{FSIMU: 100, FSRef: 10, Seed: 43})
	require.NoError(t, err)
	assert.NotEqual(t, a.Gyro[0], c.Gyro[0])
}

func TestRunDefaultModelPerturbs(t *testing.T) {
	out, err := Run(stationaryDef(1), errmodel.Default(), Options{FSIMU: 100, FSRef: 10, Seed: 7})
	require.NoError(t, err)

	var sum float64
	for _, w := range out.Gyro {
		sum += math.Abs(w[0]) + math.Abs(w[1]) + math.Abs(w[2])
	}
	assert.Greater(t, sum, 0.0, "default error model must perturb the gyro channel")
}

func TestRunValidation(t *testing.T) {
	def := stationaryDef(1)

	_, err := Run(nil, errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10})
	assert.Error(t, err)

	_, err = Run(def, nil, Options{FSIMU: 100, FSRef: 10})
	assert.Error(t, err)

	_, err = Run(def, errmodel.Ideal(), Options{FSIMU: 0, FSRef: 10})
	assert.Error(t, err)

	_, err = Run(def, errmodel.Ideal(), Options{FSIMU: 100, FSRef: -1})
	assert.Error(t, err)

	bad := errmodel.Ideal()
	bad.GyroARW = []float64{1, 1}
	_, err = Run(def, bad, Options{FSIMU: 100, FSRef: 10})
	assert.Error(t, err)

	badDef := stationaryDef(1)
	badDef.Commands[0].Type = 9
	_, err = Run(badDef, errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10})
	assert.Error(t, err)

	_, err = Run(stationaryDef(0.001), errmodel.Ideal(), Options{FSIMU: 100, FSRef: 10})
	assert.Error(t, err, "motion too short for one sample")
}
