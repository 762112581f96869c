package errmodel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model describes the stochastic and deterministic errors of a 9-axis
// inertial sensor set. Vector fields hold one value per axis (x, y, z);
// cross-coupling fields hold the six off-diagonal terms of the misalignment
// matrix in row-major order.
type Model struct {
	GyroARW       []float64 `yaml:"gyro_arw"`         // angle random walk, deg/sqrt(hr)
	GyroBiasStab  []float64 `yaml:"gyro_b_stability"` // bias instability, deg/hr
	GyroBiasCorr  []float64 `yaml:"gyro_b_corr"`      // bias correlation time, s
	GyroBias      []float64 `yaml:"gyro_b"`           // constant bias, deg/hr
	GyroScale     []float64 `yaml:"gyro_k"`           // scale factor, 1 = ideal
	GyroCross     []float64 `yaml:"gyro_s"`           // cross coupling

	AccelVRW      []float64 `yaml:"accel_vrw"`         // velocity random walk, m/s/sqrt(hr)
	AccelBiasStab []float64 `yaml:"accel_b_stability"` // bias instability, m/s^2
	AccelBiasCorr []float64 `yaml:"accel_b_corr"`      // bias correlation time, s
	AccelBias     []float64 `yaml:"accel_b"`           // constant bias, m/s^2
	AccelScale    []float64 `yaml:"accel_k"`           // scale factor, 1 = ideal
	AccelCross    []float64 `yaml:"accel_s"`           // cross coupling

	MagSI  [][]float64 `yaml:"mag_si"`  // soft iron, 3x3
	MagHI  []float64   `yaml:"mag_hi"`  // hard iron, uT
	MagStd []float64   `yaml:"mag_std"` // white noise, uT
}

// Default returns the reference error model of a low-cost MEMS sensor set.
func Default() *Model {
	return &Model{
		GyroARW:       []float64{0.75, 0.75, 0.75},
		GyroBiasStab:  []float64{10.0, 10.0, 10.0},
		GyroBiasCorr:  []float64{100.0, 100.0, 100.0},
		GyroBias:      []float64{0.0, 0.0, 0.0},
		GyroScale:     []float64{1.0, 1.0, 1.0},
		GyroCross:     []float64{0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		AccelVRW:      []float64{0.05, 0.05, 0.05},
		AccelBiasStab: []float64{2.0e-4, 2.0e-4, 2.0e-4},
		AccelBiasCorr: []float64{100.0, 100.0, 100.0},
		AccelBias:     []float64{0.0, 0.0, 0.0},
		AccelScale:    []float64{1.0, 1.0, 1.0},
		AccelCross:    []float64{0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		MagSI: [][]float64{
			{1.0, 0.0, 0.0},
			{0.0, 1.0, 0.0},
			{0.0, 0.0, 1.0},
		},
		MagHI:  []float64{0.0, 0.0, 0.0},
		MagStd: []float64{0.1, 0.1, 0.1},
	}
}

// Ideal returns an error-free model: zero noise, zero bias, unit scale.
// Useful for producing reference datasets and plots.
func Ideal() *Model {
	m := Default()
	m.GyroARW = []float64{0, 0, 0}
	m.GyroBiasStab = []float64{0, 0, 0}
	m.AccelVRW = []float64{0, 0, 0}
	m.AccelBiasStab = []float64{0, 0, 0}
	m.MagStd = []float64{0, 0, 0}
	return m
}

// Load reads a YAML file and applies it on top of the default model.
// Keys absent from the file keep their default values.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("errmodel: read %s: %w", path, err)
	}
	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("errmodel: parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("errmodel: %s: %w", path, err)
	}
	return m, nil
}

// Validate checks vector shapes and value ranges.
func (m *Model) Validate() error {
	for _, f := range []struct {
		name string
		v    []float64
		n    int
	}{
		{"gyro_arw", m.GyroARW, 3},
		{"gyro_b_stability", m.GyroBiasStab, 3},
		{"gyro_b_corr", m.GyroBiasCorr, 3},
		{"gyro_b", m.GyroBias, 3},
		{"gyro_k", m.GyroScale, 3},
		{"gyro_s", m.GyroCross, 6},
		{"accel_vrw", m.AccelVRW, 3},
		{"accel_b_stability", m.AccelBiasStab, 3},
		{"accel_b_corr", m.AccelBiasCorr, 3},
		{"accel_b", m.AccelBias, 3},
		{"accel_k", m.AccelScale, 3},
		{"accel_s", m.AccelCross, 6},
		{"mag_hi", m.MagHI, 3},
		{"mag_std", m.MagStd, 3},
	} {
		if len(f.v) != f.n {
			return fmt.Errorf("%s must have %d elements, got %d", f.name, f.n, len(f.v))
		}
	}

	if len(m.MagSI) != 3 {
		return fmt.Errorf("mag_si must have 3 rows, got %d", len(m.MagSI))
	}
	for i, row := range m.MagSI {
		if len(row) != 3 {
			return fmt.Errorf("mag_si row %d must have 3 elements, got %d", i, len(row))
		}
	}

	for _, f := range []struct {
		name string
		v    []float64
	}{
		{"gyro_arw", m.GyroARW},
		{"gyro_b_stability", m.GyroBiasStab},
		{"accel_vrw", m.AccelVRW},
		{"accel_b_stability", m.AccelBiasStab},
		{"mag_std", m.MagStd},
	} {
		for i, x := range f.v {
			if x < 0 {
				return fmt.Errorf("%s[%d] must be non-negative, got %v", f.name, i, x)
			}
		}
	}

	for i, tau := range m.GyroBiasCorr {
		if tau <= 0 {
			return fmt.Errorf("gyro_b_corr[%d] must be positive, got %v", i, tau)
		}
	}
	for i, tau := range m.AccelBiasCorr {
		if tau <= 0 {
			return fmt.Errorf("accel_b_corr[%d] must be positive, got %v", i, tau)
		}
	}

	return nil
}
