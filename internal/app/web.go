package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/inertial_recorder/internal/bag"
	"github.com/relabs-tech/inertial_recorder/internal/config"
	"github.com/relabs-tech/inertial_recorder/internal/orientation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsFrame is one websocket push: the originating channel plus the raw
// message payload.
type wsFrame struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type webState struct {
	mu       sync.RWMutex
	lastIMU  *bag.IMUMessage
	lastPose *bag.PoseMessage

	connMu sync.Mutex
	conns  map[*websocket.Conn]bool
}

// RunWeb serves the live view: static files, a JSON snapshot endpoint
// and a websocket that pushes every message received from MQTT. With
// demo set, a generated orientation pattern is served instead of
// subscribing to the broker.
func RunWeb(cfg *config.Config, demo bool) error {
	state := &webState{conns: make(map[*websocket.Conn]bool)}

	// ---- 1) Message source: MQTT subscription or demo pattern ----
	if demo {
		log.Println("web: demo mode, not connecting to MQTT")
		src, err := newDemoSource()
		if err != nil {
			return err
		}
		go runDemoFeed(state, cfg.TopicPose, src)
	} else {
		opts := mqtt.NewClientOptions().
			AddBroker(cfg.MQTTBroker).
			SetClientID(cfg.MQTTClientID + "-web")

		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return token.Error()
		}
		log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

		imuToken := client.Subscribe(cfg.TopicIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var m bag.IMUMessage
			if err := json.Unmarshal(msg.Payload(), &m); err != nil {
				log.Printf("web: imu unmarshal error: %v", err)
				return
			}
			state.mu.Lock()
			state.lastIMU = &m
			state.mu.Unlock()
			state.broadcast(cfg.TopicIMU, msg.Payload())
		})
		imuToken.Wait()
		if imuToken.Error() != nil {
			return imuToken.Error()
		}
		log.Printf("web: subscribed to %s", cfg.TopicIMU)

		poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var m bag.PoseMessage
			if err := json.Unmarshal(msg.Payload(), &m); err != nil {
				log.Printf("web: pose unmarshal error: %v", err)
				return
			}
			state.mu.Lock()
			state.lastPose = &m
			state.mu.Unlock()
			state.broadcast(cfg.TopicPose, msg.Payload())
		})
		poseToken.Wait()
		if poseToken.Error() != nil {
			return poseToken.Error()
		}
		log.Printf("web: subscribed to %s", cfg.TopicPose)
	}

	// ---- 2) JSON API endpoint: latest messages ----
	http.HandleFunc("/api/latest", state.handleLatest)

	// ---- 3) Websocket push ----
	http.HandleFunc("/ws", state.handleWS)

	// ---- 4) Static files from ./web as the root ----
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *webState) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastIMU == nil && s.lastPose == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	snapshot := struct {
		IMU  *bag.IMUMessage  `json:"imu,omitempty"`
		Pose *bag.PoseMessage `json:"pose,omitempty"`
	}{s.lastIMU, s.lastPose}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webState) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	s.connMu.Lock()
	s.conns[conn] = true
	n := len(s.conns)
	s.connMu.Unlock()
	log.Printf("web: websocket client connected (%d active)", n)

	// Drain client frames; a read error drops the connection.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *webState) drop(conn *websocket.Conn) {
	s.connMu.Lock()
	if s.conns[conn] {
		delete(s.conns, conn)
		conn.Close()
	}
	s.connMu.Unlock()
}

func (s *webState) broadcast(channel string, payload []byte) {
	frame, err := json.Marshal(wsFrame{Channel: channel, Data: payload})
	if err != nil {
		log.Printf("web: frame marshal error: %v", err)
		return
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			delete(s.conns, conn)
			conn.Close()
		}
	}
}

// runDemoFeed publishes poses from src to the live view so the frontend
// can be exercised without a broker or a recording.
func runDemoFeed(s *webState, topic string, src orientation.Source) {
	ticker := time.NewTicker(time.Second / demoRateHz)
	defer ticker.Stop()

	for range ticker.C {
		pose, err := src.Next()
		if err != nil {
			log.Printf("web: demo source error: %v", err)
			continue
		}

		m := bag.PoseMessage{
			StampNs:     time.Now().UnixNano(),
			Frame:       bag.FrameInertial,
			Child:       bag.FrameInertial,
			Orientation: orientation.ToQuaternion(pose),
		}
		payload, err := json.Marshal(m)
		if err != nil {
			log.Printf("web: demo marshal error: %v", err)
			continue
		}

		s.mu.Lock()
		s.lastPose = &m
		s.mu.Unlock()
		s.broadcast(topic, payload)
	}
}
