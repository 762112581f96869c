package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_recorder/internal/bag"
	"github.com/relabs-tech/inertial_recorder/internal/config"
	"github.com/relabs-tech/inertial_recorder/internal/orientation"
)

// RunConsole prints recorded or live messages in a human-readable form.
// With bagDir set it dumps the recording and returns; otherwise it
// subscribes to the configured MQTT topics until interrupted.
func RunConsole(cfg *config.Config, bagDir string) error {
	if bagDir != "" {
		return dumpBag(cfg, bagDir)
	}
	return consoleMQTT(cfg)
}

func dumpBag(cfg *config.Config, bagDir string) error {
	r, err := bag.OpenReader(bagDir)
	if err != nil {
		return err
	}
	defer r.Close()

	hdr := r.Header()
	log.Printf("console: dumping %s: run %s, %d messages on %d channels",
		bagDir, hdr.RunID, hdr.Total, len(hdr.Channels))

	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		ts := fmt.Sprintf("%9.3f", float64(e.StampNs-hdr.StartNs)/1e9)

		switch e.Channel {
		case cfg.TopicIMU:
			m, err := e.DecodeIMU()
			if err != nil {
				return err
			}
			printIMU(ts, m)
		case cfg.TopicPose:
			m, err := e.DecodePose()
			if err != nil {
				return err
			}
			printPose(ts, m)
		default:
			fmt.Printf("%s [%s] %s\n", ts, e.Channel, e.Payload)
		}
	}
	return nil
}

func consoleMQTT(cfg *config.Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID + "-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to inertial samples
	imuToken := client.Subscribe(cfg.TopicIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m bag.IMUMessage
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: imu unmarshal error: %v", err)
			return
		}
		printIMU(time.Unix(0, m.StampNs).Format("15:04:05.000"), m)
	})
	imuToken.Wait()
	if imuToken.Error() != nil {
		return imuToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMU)

	// Subscribe to reference poses
	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m bag.PoseMessage
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}
		printPose(time.Unix(0, m.StampNs).Format("15:04:05.000"), m)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPose)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func printIMU(ts string, m bag.IMUMessage) {
	fmt.Printf(
		"%s [IMU ] gyro=(%9.5f %9.5f %9.5f) rad/s  accel=(%8.4f %8.4f %8.4f) m/s²\n",
		ts,
		m.AngularVelocity[0], m.AngularVelocity[1], m.AngularVelocity[2],
		m.LinearAcceleration[0], m.LinearAcceleration[1], m.LinearAcceleration[2],
	)
}

func printPose(ts string, m bag.PoseMessage) {
	p := orientation.FromQuaternion(m.Orientation)
	fmt.Printf(
		"%s [POSE] ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f  pos=(%8.2f %8.2f %8.2f) m\n",
		ts, p.Roll, p.Pitch, p.Yaw,
		m.Position[0], m.Position[1], m.Position[2],
	)
}
