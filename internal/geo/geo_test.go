package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamGravity(t *testing.T) {
	tests := []struct {
		name string
		pos  [3]float64
		want float64
		tol  float64
	}{
		{
			name: "equator at sea level",
			pos:  [3]float64{0, 0, 0},
			want: 9.7803253359,
			tol:  1e-9,
		},
		{
			name: "pole at sea level",
			pos:  [3]float64{math.Pi / 2, 0, 0},
			want: 9.8321849379,
			tol:  1e-4,
		},
		{
			name: "45 degrees at sea level",
			pos:  [3]float64{math.Pi / 4, 0, 0},
			want: 9.8061992,
			tol:  1e-4,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Param(tc.pos)
			assert.InDelta(t, tc.want, p.Gravity, tc.tol)
		})
	}
}

func TestParamGravityFallsOffWithAltitude(t *testing.T) {
	sea := Param([3]float64{0, 0, 0})
	high := Param([3]float64{0, 0, 1000})

	drop := sea.Gravity - high.Gravity
	// free-air gradient is roughly 3.1e-3 m/s^2 per km
	assert.Greater(t, drop, 0.0025)
	assert.Less(t, drop, 0.0040)
}

func TestParamRadii(t *testing.T) {
	p := Param([3]float64{0, 0, 0})

	// at the equator the normal radius equals the semi-major axis and the
	// meridian radius equals a*(1-e^2)
	assert.InDelta(t, Re, p.RN, 1e-6)
	assert.InDelta(t, 6335439.33, p.RM, 0.01)

	// both radii grow toward the pole, meridian stays the smaller one
	q := Param([3]float64{1.0, 0, 0})
	assert.Greater(t, q.RM, p.RM)
	assert.Greater(t, q.RN, p.RN)
	assert.Less(t, p.RM, p.RN)
}

func TestParamTrigAndRate(t *testing.T) {
	p := Param([3]float64{math.Pi / 4, 0, 0})
	assert.InDelta(t, math.Sqrt2/2, p.SinLat, 1e-12)
	assert.InDelta(t, math.Sqrt2/2, p.CosLat, 1e-12)
	assert.Equal(t, WIE, p.WIE)
}

func TestParamIsPure(t *testing.T) {
	pos := [3]float64{0.6, 0.1, 1234.5}
	assert.Equal(t, Param(pos), Param(pos))
}

func TestParamNonFiniteInputs(t *testing.T) {
	zero := Param([3]float64{0, 0, 0})

	for _, pos := range [][3]float64{
		{math.NaN(), 0, 0},
		{math.Inf(1), 0, 0},
		{0, 0, math.NaN()},
		{math.Inf(-1), 0, math.Inf(1)},
	} {
		p := Param(pos)
		assert.Equal(t, zero, p, "pos %v must degrade to the zero-input value", pos)
	}
}
