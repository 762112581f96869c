package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/relabs-tech/inertial_recorder/internal/geo"
)

var (
	// ErrNoSamples marks an input with an empty inertial or reference series.
	ErrNoSamples = errors.New("stream: empty input series")
	// ErrRaggedSeries marks paired series of different lengths.
	ErrRaggedSeries = errors.New("stream: paired series lengths differ")
)

// Input is the raw simulator output the generator pairs up: inertial
// series (gyro, accel) sampled at the IMU rate and reference series
// (position, attitude) sampled at their own rate. Gyro and accel must have
// equal lengths, as must position and attitude.
type Input struct {
	Gyro   [][3]float64 // rad/s
	Accel  [][3]float64 // specific force, m/s^2
	RefPos [][3]float64 // m, frame anchored anywhere
	RefAtt [][4]float64 // scalar-first quaternions
}

// Record is one joint sample: inertial and reference values paired by
// index, stamped, origin-shifted and gravity-corrected.
type Record struct {
	T     float64    // s since the first record
	Gyro  [3]float64 // rad/s
	Accel [3]float64 // m/s^2, vertical axis gravity-corrected
	Pos   [3]float64 // m, relative to the first reference position
	Att   [4]float64
}

// Generator pairs the input series index by index and emits records until
// the shorter side runs out. It is a single-pass pull iterator: Next
// returns io.EOF once exhausted, is not restartable and must not be shared
// across goroutines.
type Generator struct {
	in         Input
	fsIMU      float64
	n          int
	i          int
	origin     [3]float64
	haveOrigin bool
}

// NewGenerator validates the input and returns a generator over it. The
// number of records is the length of the shorter of the inertial and
// reference sides: trailing unpaired samples are dropped.
func NewGenerator(in Input, fsIMU float64) (*Generator, error) {
	if !(fsIMU > 0) {
		return nil, fmt.Errorf("stream: sample frequency must be positive, got %v", fsIMU)
	}
	if len(in.Gyro) == 0 || len(in.RefPos) == 0 {
		return nil, ErrNoSamples
	}
	if len(in.Accel) != len(in.Gyro) {
		return nil, fmt.Errorf("%w: gyro %d, accel %d", ErrRaggedSeries, len(in.Gyro), len(in.Accel))
	}
	if len(in.RefAtt) != len(in.RefPos) {
		return nil, fmt.Errorf("%w: position %d, attitude %d", ErrRaggedSeries, len(in.RefPos), len(in.RefAtt))
	}

	return &Generator{
		in:    in,
		fsIMU: fsIMU,
		n:     min(len(in.Gyro), len(in.RefPos)),
	}, nil
}

// Len returns the number of records the generator will emit in total.
func (g *Generator) Len() int { return g.n }

// Next emits the next record, or io.EOF when the input is exhausted.
//
// The record timestamp is i/fs for the i-th emission. The origin is
// captured from the first reference position and subtracted from every
// position. Local gravity is resolved from the origin-relative position
// vector and added to the vertical accelerometer axis.
func (g *Generator) Next() (Record, error) {
	if g.i >= g.n {
		return Record{}, io.EOF
	}
	i := g.i
	g.i++

	if !g.haveOrigin {
		g.origin = g.in.RefPos[0]
		g.haveOrigin = true
	}

	var rel [3]float64
	for k := 0; k < 3; k++ {
		rel[k] = g.in.RefPos[i][k] - g.origin[k]
	}

	accel := g.in.Accel[i]
	accel[2] += geo.Param(rel).Gravity

	return Record{
		T:     float64(i) / g.fsIMU,
		Gyro:  g.in.Gyro[i],
		Accel: accel,
		Pos:   rel,
		Att:   g.in.RefAtt[i],
	}, nil
}
