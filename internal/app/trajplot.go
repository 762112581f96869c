// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/inertial_recorder/internal/config"
	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
	"github.com/relabs-tech/inertial_recorder/internal/motion"
	"github.com/relabs-tech/inertial_recorder/internal/sim"
)

// RunTrajPlot simulates the configured motion definition with an ideal
// sensor model and renders the reference trajectory as PNG files:
// ground track, altitude profile and speed profile.
func RunTrajPlot(cfg *config.Config, outDir string) error {
	def, err := motion.Load(cfg.MotionFile)
	if err != nil {
		return err
	}

	out, err := sim.Run(def, errmodel.Ideal(), sim.Options{FSIMU: cfg.FSIMU, FSRef: cfg.FSGPS, Seed: 1})
	if err != nil {
		return err
	}
	if len(out.RefPos) < 2 {
		return fmt.Errorf("trajplot: %d reference samples, need at least 2", len(out.RefPos))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := plotGroundTrack(out.RefPos, filepath.Join(outDir, "ground_track.png")); err != nil {
		return err
	}
	if err := plotAltitude(out.RefPos, cfg.FSGPS, filepath.Join(outDir, "altitude.png")); err != nil {
		return err
	}
	if err := plotSpeed(out.RefPos, cfg.FSGPS, filepath.Join(outDir, "speed.png")); err != nil {
		return err
	}

	log.Printf("trajplot: wrote 3 plots for %.1fs of motion to %s", def.Duration(), outDir)
	return nil
}

func plotGroundTrack(pos [][3]float64, path string) error {
	pts := make(plotter.XYs, len(pos))
	for i, p := range pos {
		pts[i] = plotter.XY{X: p[1], Y: p[0]} // east on X, north on Y
	}

	pl := plot.New()
	pl.Title.Text = "Ground Track"
	pl.X.Label.Text = "East (m)"
	pl.Y.Label.Text = "North (m)"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)

	if err := pl.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save ground track plot: %w", err)
	}
	return nil
}

func plotAltitude(pos [][3]float64, fs float64, path string) error {
	pts := make(plotter.XYs, len(pos))
	for i, p := range pos {
		// third position axis points down
		pts[i] = plotter.XY{X: float64(i) / fs, Y: -p[2]}
	}

	pl := plot.New()
	pl.Title.Text = "Altitude Profile"
	pl.X.Label.Text = "Time (s)"
	pl.Y.Label.Text = "Altitude above start (m)"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)

	if err := pl.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save altitude plot: %w", err)
	}
	return nil
}

func plotSpeed(pos [][3]float64, fs float64, path string) error {
	pts := make(plotter.XYs, 0, len(pos)-1)
	for i := 1; i < len(pos); i++ {
		dx := (pos[i][0] - pos[i-1][0]) * fs
		dy := (pos[i][1] - pos[i-1][1]) * fs
		dz := (pos[i][2] - pos[i-1][2]) * fs
		pts = append(pts, plotter.XY{
			X: float64(i) / fs,
			Y: math.Sqrt(dx*dx + dy*dy + dz*dz),
		})
	}

	pl := plot.New()
	pl.Title.Text = "Speed Profile"
	pl.X.Label.Text = "Time (s)"
	pl.Y.Label.Text = "Speed (m/s)"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	pl.Add(line)

	if err := pl.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save speed plot: %w", err)
	}
	return nil
}
