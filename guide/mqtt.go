package guide

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DetectionHandler is called when the marker-detection layer reports a
// recognized waypoint. locationID is the raw id from the scanned marker;
// err is non-nil when the payload could not be decoded.
type DetectionHandler func(locationID string, err error)

// DetectionClient manages the MQTT connection to the camera/QR detection
// feed. Detections arrive as JSON objects or bare id strings on the
// configured topic.
type DetectionClient struct {
	client      mqtt.Client
	config      *Config
	handler     DetectionHandler
	isConnected bool
	mu          sync.RWMutex
}

// InitDetection initializes the detection client from config. If no broker
// is configured (config and MQTT_BROKER env var both empty), MQTT is
// disabled and this returns (nil, nil).
func InitDetection(config *Config, handler DetectionHandler) (*DetectionClient, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil && config.MQTT.Broker != "" {
		broker = config.MQTT.Broker
	}

	if broker == "" {
		log.Println("MQTT disabled: MQTT_BROKER not set")
		return nil, nil
	}

	if config == nil || config.MQTT.DetectionTopic == "" {
		return nil, fmt.Errorf("MQTT enabled but no detection topic configured")
	}

	c := &DetectionClient{
		config:  config,
		handler: handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.MQTT.ClientID != "" {
		clientID = config.MQTT.ClientID
	}
	if clientID == "" {
		clientID = "tactilenav"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.MQTT.Username != "" {
		username = config.MQTT.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.MQTT.Password != "" {
			password = config.MQTT.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false) // Preserve subscriptions on reconnect

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)

	c.client = mqtt.NewClient(opts)

	// Connect asynchronously with retry
	go c.connectWithRetry()

	return c, nil
}

// connectWithRetry attempts to connect to the MQTT broker with exponential backoff
func (c *DetectionClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("Connecting to MQTT broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("Successfully connected to MQTT broker")
				c.setConnected(true)
				return
			}
			log.Printf("MQTT connection failed: %v", token.Error())
		} else {
			log.Println("MQTT connection timeout")
		}

		log.Printf("Retrying MQTT connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (c *DetectionClient) onConnect(client mqtt.Client) {
	log.Println("MQTT connected, subscribing to detection topic...")
	c.setConnected(true)

	topic := c.config.MQTT.DetectionTopic
	token := client.Subscribe(topic, 0, c.handleDetection)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("Error subscribing to %s: %v", topic, token.Error())
	} else {
		log.Printf("Successfully subscribed to %s", topic)
	}
}

func (c *DetectionClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

func (c *DetectionClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("MQTT reconnecting...")
}

// detectionPayload is the JSON structure the detection layer publishes.
type detectionPayload struct {
	LocationID string `json:"location_id"`
}

// handleDetection decodes a detection message. Accepts a JSON object
// {"location_id": "..."}, a JSON string, or a bare id as raw text.
func (c *DetectionClient) handleDetection(client mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	log.Printf("Received detection (topic: %s, size: %d bytes)", msg.Topic(), len(payload))

	locationID, err := DecodeDetection(payload)
	if c.handler != nil {
		c.handler(locationID, err)
	}
	if err != nil {
		log.Printf("Error decoding detection payload: %v", err)
	}
}

// DecodeDetection extracts the location id from a detection payload.
func DecodeDetection(payload []byte) (string, error) {
	var obj detectionPayload
	if err := json.Unmarshal(payload, &obj); err == nil && obj.LocationID != "" {
		return obj.LocationID, nil
	}

	var plain string
	if err := json.Unmarshal(payload, &plain); err == nil && plain != "" {
		return plain, nil
	}

	raw := strings.TrimSpace(string(payload))
	if raw == "" {
		return "", fmt.Errorf("empty detection payload")
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		return "", fmt.Errorf("detection payload has no location_id")
	}
	return raw, nil
}

// IsConnected returns true if the MQTT client is connected
func (c *DetectionClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *DetectionClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect gracefully closes the MQTT connection
func (c *DetectionClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		log.Println("Disconnecting from MQTT broker...")
		c.client.Disconnect(250) // 250ms quiesce time
		c.setConnected(false)
	}
}

// Client returns the underlying MQTT client for publishing
func (c *DetectionClient) Client() mqtt.Client {
	return c.client
}

// newDetectionClientWithMock creates a DetectionClient with a provided
// mqtt.Client. This is used for testing with mock clients.
func newDetectionClientWithMock(client mqtt.Client, config *Config, handler DetectionHandler) *DetectionClient {
	return &DetectionClient{
		client:  client,
		config:  config,
		handler: handler,
	}
}
