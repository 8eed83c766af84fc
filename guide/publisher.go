package guide

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// positionUpdate is the payload published on each detection.
type positionUpdate struct {
	LocationID string  `json:"locationId"`
	Floor      int     `json:"floor"`
	FloorName  string  `json:"floorName"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Facing     float64 `json:"facing"`
	Timestamp  int64   `json:"timestamp"`
}

// routeUpdate is the payload published when a route is issued.
type routeUpdate struct {
	Route     *NavigationRoute `json:"route"`
	Spoken    []string         `json:"spoken"`
	Timestamp int64            `json:"timestamp"`
}

// GuidancePublisher publishes position and route updates to MQTT so the
// audio frontend and any monitoring dashboard can follow along. QoS 0 with
// retain: subscribers joining late get the latest state, lost intermediate
// updates do not matter.
type GuidancePublisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
	lastPosition  *positionUpdate
	mu            sync.RWMutex
}

// NewGuidancePublisher creates a publisher on an existing MQTT connection.
// If client is nil, publishing is disabled (for testing and one-shot mode).
func NewGuidancePublisher(client mqtt.Client, prefix string) *GuidancePublisher {
	if env := os.Getenv("MQTT_PUBLISH_PREFIX"); env != "" {
		prefix = env
	}
	if prefix == "" {
		prefix = "guidance"
	}

	return &GuidancePublisher{
		client:        client,
		publishPrefix: prefix,
		qos:           0,
		retain:        true,
	}
}

// PublishPosition publishes the user's position after a detection.
func (p *GuidancePublisher) PublishPosition(state UserState) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	update := &positionUpdate{
		LocationID: state.LocationID,
		Floor:      state.Floor,
		FloorName:  FloorName(state.Floor),
		X:          state.Coordinates.X,
		Y:          state.Coordinates.Y,
		Facing:     state.FacingDirection,
		Timestamp:  time.Now().Unix(),
	}

	p.mu.Lock()
	p.lastPosition = update
	p.mu.Unlock()

	topic := fmt.Sprintf("%s/position", p.publishPrefix)
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling position: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("Published position %s (floor %d, facing %.0f°)",
		state.LocationID, state.Floor, state.FacingDirection)
	return nil
}

// PublishRoute publishes a computed route with its flattened spoken lines.
func (p *GuidancePublisher) PublishRoute(route *NavigationRoute) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	update := &routeUpdate{
		Route:     route,
		Spoken:    route.Instructions(),
		Timestamp: time.Now().Unix(),
	}

	topic := fmt.Sprintf("%s/route", p.publishPrefix)
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling route: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("Published route %s -> %s (%d segments, %.0f m)",
		route.Origin, route.Destination, len(route.Segments), route.TotalDistance)
	return nil
}

// LastPosition returns the most recently published position update.
func (p *GuidancePublisher) LastPosition() (UserState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.lastPosition == nil {
		return UserState{}, false
	}
	return UserState{
		LocationID:      p.lastPosition.LocationID,
		Coordinates:     Point{X: p.lastPosition.X, Y: p.lastPosition.Y},
		FacingDirection: p.lastPosition.Facing,
		Floor:           p.lastPosition.Floor,
	}, true
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *GuidancePublisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *GuidancePublisher) SetRetain(retain bool) {
	p.retain = retain
}
