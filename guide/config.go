package guide

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MQTTConfig holds broker connection settings for the detection feed and
// guidance publisher.
type MQTTConfig struct {
	Broker         string `yaml:"broker" json:"broker"`
	ClientID       string `yaml:"clientId" json:"clientId"`
	Username       string `yaml:"username,omitempty" json:"username,omitempty"`
	Password       string `yaml:"password,omitempty" json:"password,omitempty"`
	DetectionTopic string `yaml:"detectionTopic" json:"detectionTopic"`
	PublishPrefix  string `yaml:"publishPrefix" json:"publishPrefix"`
}

// Config is the service configuration, loaded from YAML.
type Config struct {
	MQTT        MQTTConfig `yaml:"mqtt" json:"mqtt"`
	CatalogPath string     `yaml:"catalogPath" json:"catalogPath"`
	ListenAddr  string     `yaml:"listenAddr,omitempty" json:"listenAddr,omitempty"`
}

// LoadConfig loads the service configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	// Validate required fields
	if config.CatalogPath == "" {
		return nil, fmt.Errorf("catalogPath is required")
	}
	if config.MQTT.Broker != "" {
		if config.MQTT.DetectionTopic == "" {
			return nil, fmt.Errorf("mqtt.detectionTopic is required when mqtt.broker is set")
		}
		if config.MQTT.PublishPrefix == "" {
			config.MQTT.PublishPrefix = "guidance"
		}
	}
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
