// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/inertial_recorder/internal/bag"
	"github.com/relabs-tech/inertial_recorder/internal/config"
)

// RunPlayback replays a recorded bag over MQTT, each message on its
// original channel. With realtime set the original inter-message gaps
// are reproduced; otherwise messages go out back to back. When
// SERIAL_PORT is configured, inertial samples are also written to the
// port as CSV lines.
func RunPlayback(cfg *config.Config, bagDir string, realtime bool) error {
	// ---- 1) Open the recording ----
	r, err := bag.OpenReader(bagDir)
	if err != nil {
		return err
	}
	defer r.Close()

	hdr := r.Header()
	log.Printf("playback: %s: run %s, %d messages on %d channels",
		bagDir, hdr.RunID, hdr.Total, len(hdr.Channels))

	// ---- 2) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID + "-playback")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("playback: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 3) Optional serial output ----
	var port io.WriteCloser
	if cfg.SerialPort != "" {
		serialOpts := serial.OpenOptions{
			PortName:        cfg.SerialPort,
			BaudRate:        uint(cfg.SerialBaud),
			DataBits:        8,
			StopBits:        1,
			MinimumReadSize: 1,
			ParityMode:      serial.PARITY_NONE,
		}
		port, err = serial.Open(serialOpts)
		if err != nil {
			return err
		}
		defer port.Close()
		log.Printf("playback: serial output on %s at %d baud", cfg.SerialPort, cfg.SerialBaud)
	}

	// ---- 4) Publish loop ----
	published := 0
	prevNs := int64(-1)

	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if realtime {
			if d := pacingDelay(prevNs, e.StampNs); d > 0 {
				time.Sleep(d)
			}
		}
		prevNs = e.StampNs

		token := client.Publish(e.Channel, 0, true, e.Payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("playback: publish error on %s: %v", e.Channel, token.Error())
			continue
		}

		if port != nil && e.Channel == cfg.TopicIMU {
			m, err := e.DecodeIMU()
			if err != nil {
				return err
			}
			if _, err := port.Write([]byte(serialLine(m))); err != nil {
				log.Printf("playback: serial write error: %v", err)
			}
		}

		published++
		if published%1000 == 0 {
			log.Printf("playback: published %d/%d messages", published, hdr.Total)
		}
	}

	log.Printf("playback: done, published %d messages", published)
	return nil
}

// pacingDelay returns how long realtime playback waits before emitting a
// record stamped curNs when the previous record was stamped prevNs. The
// first record of a run (prevNs < 0) and non-increasing stamps play
// immediately.
func pacingDelay(prevNs, curNs int64) time.Duration {
	if prevNs < 0 || curNs <= prevNs {
		return 0
	}
	return time.Duration(curNs - prevNs)
}

// serialLine renders one inertial sample as the CSV line written to the
// serial port: marker, stamp ns, gyro xyz rad/s, accel xyz m/s^2.
func serialLine(m bag.IMUMessage) string {
	return fmt.Sprintf("IMU,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\r\n",
		m.StampNs,
		m.AngularVelocity[0], m.AngularVelocity[1], m.AngularVelocity[2],
		m.LinearAcceleration[0], m.LinearAcceleration[1], m.LinearAcceleration[2])
}
