package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuatFromEuler(t *testing.T) {
	tests := []struct {
		name string
		att  [3]float64 // yaw, pitch, roll rad
		want [4]float64
	}{
		{"identity", [3]float64{0, 0, 0}, [4]float64{1, 0, 0, 0}},
		{"yaw 90", [3]float64{math.Pi / 2, 0, 0}, [4]float64{math.Sqrt2 / 2, 0, 0, math.Sqrt2 / 2}},
		{"pitch 90", [3]float64{0, math.Pi / 2, 0}, [4]float64{math.Sqrt2 / 2, 0, math.Sqrt2 / 2, 0}},
		{"roll 90", [3]float64{0, 0, math.Pi / 2}, [4]float64{math.Sqrt2 / 2, math.Sqrt2 / 2, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := quatFromEuler(tc.att)
			for i := 0; i < 4; i++ {
				assert.InDelta(t, tc.want[i], q[i], 1e-12)
			}
		})
	}
}

func TestQuatFromEulerIsUnit(t *testing.T) {
	q := quatFromEuler([3]float64{1.1, -0.4, 2.3})
	norm := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	assert.InDelta(t, 1.0, norm, 1e-12)
}

func TestQuatRotate(t *testing.T) {
	// yaw +90: body x points east, so body (1,0,0) maps to nav (0,1,0)
	q := quatFromEuler([3]float64{math.Pi / 2, 0, 0})
	v := quatRotate(q, [3]float64{1, 0, 0})
	assert.InDelta(t, 0, v[0], 1e-12)
	assert.InDelta(t, 1, v[1], 1e-12)
	assert.InDelta(t, 0, v[2], 1e-12)

	// conjugate reverses the rotation
	back := quatRotate(quatConj(q), v)
	assert.InDelta(t, 1, back[0], 1e-12)
	assert.InDelta(t, 0, back[1], 1e-12)
	assert.InDelta(t, 0, back[2], 1e-12)
}

func TestQuatRotatePreservesNorm(t *testing.T) {
	q := quatFromEuler([3]float64{0.3, 0.8, -1.2})
	v := quatRotate(q, [3]float64{3, -4, 12})
	norm := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	assert.InDelta(t, 13.0, norm, 1e-9)
}

func TestBodyRates(t *testing.T) {
	// level attitude: body rates equal euler rates reordered (roll, pitch, yaw)
	w := bodyRates([3]float64{0, 0, 0}, [3]float64{0.5, 0.2, 0.1})
	assert.InDelta(t, 0.1, w[0], 1e-12)
	assert.InDelta(t, 0.2, w[1], 1e-12)
	assert.InDelta(t, 0.5, w[2], 1e-12)

	// pitched up 90 degrees: yaw rate appears on the negative body x axis
	w = bodyRates([3]float64{0, math.Pi / 2, 0}, [3]float64{0.5, 0, 0})
	assert.InDelta(t, -0.5, w[0], 1e-12)
	assert.InDelta(t, 0, w[1], 1e-12)
	assert.InDelta(t, 0, w[2], 1e-12)

	// rolled 90 degrees: pitch rate appears on the negative body z axis
	w = bodyRates([3]float64{0, 0, math.Pi / 2}, [3]float64{0, 0.2, 0})
	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 0, w[1], 1e-12)
	assert.InDelta(t, -0.2, w[2], 1e-12)
}
