package app

import (
	"io"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/relabs-tech/inertial_recorder/internal/bag"
	"github.com/relabs-tech/inertial_recorder/internal/config"
	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
	"github.com/relabs-tech/inertial_recorder/internal/motion"
	"github.com/relabs-tech/inertial_recorder/internal/sim"
	"github.com/relabs-tech/inertial_recorder/internal/stream"
)

// RunRecorder synthesizes one dataset run and writes it to a bag directory
// under cfg.OutputPath. Each streamed record becomes two messages: one
// inertial sample and one reference pose, appended to their channels.
func RunRecorder(cfg *config.Config) error {
	// ---- 1) Load motion definition ----
	def, err := motion.Load(cfg.MotionFile)
	if err != nil {
		return err
	}
	log.Printf("loaded motion definition %s: %d commands, %.1fs",
		cfg.MotionFile, len(def.Commands), def.Duration())

	// ---- 2) Load sensor error model ----
	em := errmodel.Default()
	if cfg.ErrorModelFile != "" {
		em, err = errmodel.Load(cfg.ErrorModelFile)
		if err != nil {
			return err
		}
		log.Printf("loaded error model from %s", cfg.ErrorModelFile)
	} else {
		log.Println("no error model file configured, using reference defaults")
	}

	// ---- 3) Run the trajectory simulation ----
	out, err := sim.Run(def, em, sim.Options{FSIMU: cfg.FSIMU, FSRef: cfg.FSGPS, Seed: cfg.Seed})
	if err != nil {
		return err
	}
	log.Printf("simulated %d inertial samples at %g Hz, %d reference samples at %g Hz",
		len(out.Gyro), cfg.FSIMU, len(out.RefPos), cfg.FSGPS)

	// ---- 4) Stream joint records into the bag ----
	gen, err := stream.NewGenerator(stream.Input{
		Gyro:   out.Gyro,
		Accel:  out.Accel,
		RefPos: out.RefPos,
		RefAtt: out.RefAtt,
	}, cfg.FSIMU)
	if err != nil {
		return err
	}

	name := cfg.OutputName
	if name == "" {
		name = "run_" + time.Now().Format("20060102_150405") + ".ibag"
	}
	dir := filepath.Join(cfg.OutputPath, name)

	start := time.Now()
	w, err := bag.NewWriter(dir, bag.Meta{
		FSIMU:      cfg.FSIMU,
		MotionFile: cfg.MotionFile,
		Start:      start,
	})
	if err != nil {
		return err
	}

	baseNs := start.UnixNano()
	records := 0
	for {
		rec, err := gen.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Close()
			return err
		}

		stamp := baseNs + int64(math.Round(rec.T*1e9))

		imuMsg := bag.IMUMessage{
			StampNs:            stamp,
			Frame:              bag.FrameENU,
			Orientation:        rec.Att,
			AngularVelocity:    rec.Gyro,
			LinearAcceleration: rec.Accel,
		}
		if err := w.Append(cfg.TopicIMU, stamp, imuMsg); err != nil {
			w.Close()
			return err
		}

		poseMsg := bag.PoseMessage{
			StampNs:     stamp,
			Frame:       bag.FrameInertial,
			Child:       bag.FrameInertial,
			Position:    rec.Pos,
			Orientation: rec.Att,
		}
		if err := w.Append(cfg.TopicPose, stamp, poseMsg); err != nil {
			w.Close()
			return err
		}
		records++
	}

	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("recorded %d joint records (%d messages) to %s", records, records*2, dir)
	return nil
}
