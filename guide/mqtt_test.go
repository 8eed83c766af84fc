package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetection(t *testing.T) {
	t.Run("json object", func(t *testing.T) {
		id, err := DecodeDetection([]byte(`{"location_id": "office_010"}`))
		require.NoError(t, err)
		assert.Equal(t, "office_010", id)
	})

	t.Run("json string", func(t *testing.T) {
		id, err := DecodeDetection([]byte(`"stairs_g"`))
		require.NoError(t, err)
		assert.Equal(t, "stairs_g", id)
	})

	t.Run("bare text", func(t *testing.T) {
		id, err := DecodeDetection([]byte("  corridor_g1\n"))
		require.NoError(t, err)
		assert.Equal(t, "corridor_g1", id)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := DecodeDetection([]byte("   "))
		assert.ErrorContains(t, err, "empty detection payload")
	})

	t.Run("object without id", func(t *testing.T) {
		_, err := DecodeDetection([]byte(`{"confidence": 0.93}`))
		assert.ErrorContains(t, err, "no location_id")
	})

	t.Run("array payload", func(t *testing.T) {
		_, err := DecodeDetection([]byte(`["office_010"]`))
		assert.Error(t, err)
	})
}

func TestInitDetection_Disabled(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")

	client, err := InitDetection(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, client)

	client, err = InitDetection(&Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitDetection_MissingTopic(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")

	cfg := &Config{MQTT: MQTTConfig{Broker: "tcp://localhost:1883"}}
	_, err := InitDetection(cfg, nil)
	assert.ErrorContains(t, err, "no detection topic")
}

func TestDetectionClient_HandlesMessages(t *testing.T) {
	cfg := &Config{MQTT: MQTTConfig{
		Broker:         "tcp://localhost:1883",
		DetectionTopic: "detections/qr",
	}}

	var gotID string
	var gotErr error
	handler := func(locationID string, err error) {
		gotID = locationID
		gotErr = err
	}

	mock := NewMockClient()
	mock.SetConnected(true)
	client := newDetectionClientWithMock(mock, cfg, handler)

	// onConnect subscribes to the detection topic.
	client.onConnect(mock)
	assert.True(t, client.IsConnected())

	mock.SimulateMessage("detections/qr", []byte(`{"location_id": "lab_101"}`))
	require.NoError(t, gotErr)
	assert.Equal(t, "lab_101", gotID)

	mock.SimulateMessage("detections/qr", []byte("   "))
	assert.Error(t, gotErr)
}

func TestDetectionClient_ConnectionState(t *testing.T) {
	mock := NewMockClient()
	mock.SetConnected(true)
	client := newDetectionClientWithMock(mock, &Config{}, nil)

	assert.False(t, client.IsConnected())
	client.setConnected(true)
	assert.True(t, client.IsConnected())

	client.Disconnect()
	assert.False(t, client.IsConnected())
	assert.False(t, mock.IsConnected())
}
