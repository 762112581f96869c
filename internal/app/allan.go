// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/inertial_recorder/internal/allan"
	"github.com/relabs-tech/inertial_recorder/internal/bag"
	"github.com/relabs-tech/inertial_recorder/internal/config"
)

var axisNames = [3]string{"x", "y", "z"}

// RunAllan computes overlapping Allan deviation curves for the gyro and
// accelerometer channels of a recorded bag and renders them as log-log
// plots in outDir.
func RunAllan(cfg *config.Config, bagDir, outDir string, points int) error {
	// ---- 1) Collect inertial samples from the bag ----
	r, err := bag.OpenReader(bagDir)
	if err != nil {
		return err
	}
	defer r.Close()

	hdr := r.Header()
	if hdr.FSIMU <= 0 {
		return fmt.Errorf("allan: bag header carries no sample rate")
	}

	var gyro, accel [3][]float64
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if e.Channel != cfg.TopicIMU {
			continue
		}
		m, err := e.DecodeIMU()
		if err != nil {
			return err
		}
		for a := 0; a < 3; a++ {
			gyro[a] = append(gyro[a], m.AngularVelocity[a])
			accel[a] = append(accel[a], m.LinearAcceleration[a])
		}
	}
	if len(gyro[0]) == 0 {
		return fmt.Errorf("allan: no inertial samples on channel %s", cfg.TopicIMU)
	}
	log.Printf("allan: %d samples per axis at %g Hz from %s", len(gyro[0]), hdr.FSIMU, bagDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	// ---- 2) Per-axis deviation curves, one plot per sensor ----
	err = plotDeviation("gyro", gyro, hdr.FSIMU, points,
		"Gyroscope Allan Deviation", "Sigma (rad/s)", filepath.Join(outDir, "allan_gyro.png"))
	if err != nil {
		return err
	}
	err = plotDeviation("accel", accel, hdr.FSIMU, points,
		"Accelerometer Allan Deviation", "Sigma (m/s²)", filepath.Join(outDir, "allan_accel.png"))
	if err != nil {
		return err
	}

	log.Printf("allan: wrote deviation plots to %s", outDir)
	return nil
}

func plotDeviation(name string, series [3][]float64, fs float64, points int, title, yLabel, path string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Tau (s)"
	pl.Y.Label.Text = yLabel
	pl.X.Scale = plot.LogScale{}
	pl.Y.Scale = plot.LogScale{}
	pl.X.Tick.Marker = plot.LogTicks{Prec: -1}
	pl.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	var args []interface{}
	for a := 0; a < 3; a++ {
		curve, err := allan.Deviation(series[a], fs, points)
		if err != nil {
			return fmt.Errorf("allan: %s %s: %w", name, axisNames[a], err)
		}

		mean, std := stat.MeanStdDev(series[a], nil)
		log.Printf("allan: %s %s: mean=%.6g std=%.6g over %d samples",
			name, axisNames[a], mean, std, len(series[a]))

		// Log axes cannot place zero deviation values.
		pts := make(plotter.XYs, 0, len(curve))
		for _, ts := range curve {
			if ts.Sigma > 0 {
				pts = append(pts, plotter.XY{X: ts.Tau, Y: ts.Sigma})
			}
		}
		if len(pts) == 0 {
			log.Printf("allan: %s %s is constant, skipping curve", name, axisNames[a])
			continue
		}
		args = append(args, axisNames[a], pts)
	}
	if len(args) == 0 {
		return fmt.Errorf("allan: %s carries no deviation to plot", name)
	}

	if err := plotutil.AddLines(pl, args...); err != nil {
		return err
	}
	if err := pl.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save allan plot: %w", err)
	}
	return nil
}
