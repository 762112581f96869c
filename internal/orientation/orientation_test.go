package orientation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuaternion(t *testing.T) {
	sq2 := math.Sqrt(2) / 2

	tests := []struct {
		name string
		q    [4]float64
		want Pose
	}{
		{
			name: "identity",
			q:    [4]float64{1, 0, 0, 0},
			want: Pose{Roll: 0, Pitch: 0, Yaw: 0},
		},
		{
			name: "yaw 90",
			q:    [4]float64{sq2, 0, 0, sq2},
			want: Pose{Roll: 0, Pitch: 0, Yaw: 90},
		},
		{
			name: "roll 90",
			q:    [4]float64{sq2, sq2, 0, 0},
			want: Pose{Roll: 90, Pitch: 0, Yaw: 0},
		},
		{
			name: "pitch 45",
			q:    [4]float64{math.Cos(math.Pi / 8), 0, math.Sin(math.Pi / 8), 0},
			want: Pose{Roll: 0, Pitch: 45, Yaw: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromQuaternion(tt.q)
			assert.InDelta(t, tt.want.Roll, got.Roll, 1e-9)
			assert.InDelta(t, tt.want.Pitch, got.Pitch, 1e-9)
			assert.InDelta(t, tt.want.Yaw, got.Yaw, 1e-9)
		})
	}
}

func TestFromQuaternionClampsPitch(t *testing.T) {
	// A quaternion a hair past straight up must not produce NaN.
	s := math.Sqrt(2)/2 + 1e-12
	got := FromQuaternion([4]float64{s, 0, s, 0})
	require.False(t, math.IsNaN(got.Pitch))
	assert.InDelta(t, 90.0, got.Pitch, 1e-3)
}

func TestToQuaternionRoundTrip(t *testing.T) {
	poses := []Pose{
		{Roll: 0, Pitch: 0, Yaw: 0},
		{Roll: 10, Pitch: -20, Yaw: 135},
		{Roll: -45, Pitch: 30, Yaw: -170},
		{Roll: 5.5, Pitch: 89, Yaw: 0.25},
	}

	for _, p := range poses {
		q := ToQuaternion(p)

		norm := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
		assert.InDelta(t, 1.0, norm, 1e-12)

		got := FromQuaternion(q)
		assert.InDelta(t, p.Roll, got.Roll, 1e-9)
		assert.InDelta(t, p.Pitch, got.Pitch, 1e-9)
		assert.InDelta(t, p.Yaw, got.Yaw, 1e-9)
	}
}
