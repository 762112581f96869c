package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all run configuration values.
type Config struct {
	// Simulation
	MotionFile     string
	ErrorModelFile string // optional, defaults apply when empty
	FSIMU          float64
	FSGPS          float64
	Seed           int64 // 0 seeds from the clock

	// Output
	OutputPath string
	OutputName string // optional, timestamped name when empty

	// Channels
	TopicIMU  string
	TopicPose string

	// MQTT
	MQTTBroker   string
	MQTTClientID string

	// Web Server
	WebServerPort int

	// Serial (optional playback output)
	SerialPort string
	SerialBaud int
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		FSIMU:         100,
		FSGPS:         10,
		OutputPath:    ".",
		TopicIMU:      "inertial/imu",
		TopicPose:     "inertial/pose",
		MQTTBroker:    "tcp://localhost:1883",
		MQTTClientID:  "inertial-recorder",
		WebServerPort: 8080,
		SerialBaud:    115200,
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Simulation
	case "MOTION_FILE":
		c.MotionFile = value
	case "ERROR_MODEL_FILE":
		c.ErrorModelFile = value
	case "SAMPLE_FREQUENCY_IMU":
		fs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_FREQUENCY_IMU %q: %w", value, err)
		}
		c.FSIMU = fs
	case "SAMPLE_FREQUENCY_GPS":
		fs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_FREQUENCY_GPS %q: %w", value, err)
		}
		c.FSGPS = fs
	case "SEED":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", value, err)
		}
		c.Seed = seed

	// Output
	case "OUTPUT_PATH":
		c.OutputPath = value
	case "OUTPUT_NAME":
		c.OutputName = value

	// Channels
	case "TOPIC_IMU":
		c.TopicIMU = value
	case "TOPIC_POSE":
		c.TopicPose = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaud = rate

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MotionFile == "" {
		return fmt.Errorf("MOTION_FILE is required")
	}
	if !(c.FSIMU > 0) {
		return fmt.Errorf("SAMPLE_FREQUENCY_IMU must be positive, got %v", c.FSIMU)
	}
	if !(c.FSGPS > 0) {
		return fmt.Errorf("SAMPLE_FREQUENCY_GPS must be positive, got %v", c.FSGPS)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	if c.TopicIMU == "" {
		return fmt.Errorf("TOPIC_IMU is required")
	}
	if c.TopicPose == "" {
		return fmt.Errorf("TOPIC_POSE is required")
	}
	if c.TopicIMU == c.TopicPose {
		return fmt.Errorf("TOPIC_IMU and TOPIC_POSE must differ, both are %q", c.TopicIMU)
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.WebServerPort < 1 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	if c.SerialBaud <= 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE must be positive, got %d", c.SerialBaud)
	}
	return nil
}
