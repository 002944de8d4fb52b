package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Lumina Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Cloud       CloudConfig       `yaml:"cloud"`
	Devices     []DeviceSeed      `yaml:"devices"`
	Environment EnvironmentConfig `yaml:"environment"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Voice       VoiceConfig       `yaml:"voice"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CloudConfig contains cloud IoT broker connection settings.
// The broker speaks MQTT over secure WebSocket (Huawei IoTDA wire contract).
type CloudConfig struct {
	Broker    BrokerConfig    `yaml:"broker"`
	Auth      BrokerAuth      `yaml:"auth"`
	Service   ServiceBinding  `yaml:"service"`
	Region    string          `yaml:"region"`
	QoS       int             `yaml:"qos"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
}

// BrokerConfig contains broker endpoint details.
type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	Path     string `yaml:"path"`
	ClientID string `yaml:"client_id"`
}

// BrokerAuth contains broker authentication credentials.
// Username doubles as the cloud-side device identity in topic names.
type BrokerAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ServiceBinding names the single cloud-synchronized property:
// which local device it belongs to and how the cloud addresses it.
type ServiceBinding struct {
	DeviceID   string `yaml:"device_id"`
	ServiceID  string `yaml:"service_id"`
	PropertyID string `yaml:"property_id"`
}

// ReconnectConfig contains broker reconnection settings in seconds.
type ReconnectConfig struct {
	RetryPeriod int `yaml:"retry_period"`
	MaxDelay    int `yaml:"max_delay"`
}

// DeviceSeed describes one device in the fixed startup set.
type DeviceSeed struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Kind  string   `yaml:"kind"`
	On    bool     `yaml:"on"`
	Value *float64 `yaml:"value,omitempty"`
	Unit  string   `yaml:"unit,omitempty"`
}

// EnvironmentConfig contains the initial ambient readings.
type EnvironmentConfig struct {
	Temperature float64 `yaml:"temperature"`
	Humidity    float64 `yaml:"humidity"`
	AirQuality  string  `yaml:"air_quality"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// AssistantConfig contains conversational assistant settings.
type AssistantConfig struct {
	Enabled     bool    `yaml:"enabled"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// VoiceConfig contains voice capture settings.
type VoiceConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SampleRate int    `yaml:"sample_rate"`
	Language   string `yaml:"language"`
	STTAPIKey  string `yaml:"stt_api_key"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LUMINA_SECTION_KEY
// For example: LUMINA_CLOUD_PASSWORD, LUMINA_ASSISTANT_API_KEY
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Cloud: CloudConfig{
			Broker: BrokerConfig{
				Port: 443,
				TLS:  true,
				Path: "/mqtt",
			},
			Service: ServiceBinding{
				DeviceID:   "l1",
				ServiceID:  "light",
				PropertyID: "dengguang",
			},
			QoS: 1,
			Reconnect: ReconnectConfig{
				RetryPeriod: 5,
				MaxDelay:    5,
			},
		},
		Environment: EnvironmentConfig{
			Temperature: 23.5,
			Humidity:    48,
			AirQuality:  "good",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Assistant: AssistantConfig{
			Model:       "gemini-3-flash-preview",
			Temperature: 0.5,
		},
		Voice: VoiceConfig{
			SampleRate: 16000,
			Language:   "zh",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LUMINA_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Cloud broker
	if v := os.Getenv("LUMINA_CLOUD_HOST"); v != "" {
		cfg.Cloud.Broker.Host = v
	}
	if v := os.Getenv("LUMINA_CLOUD_CLIENT_ID"); v != "" {
		cfg.Cloud.Broker.ClientID = v
	}
	if v := os.Getenv("LUMINA_CLOUD_USERNAME"); v != "" {
		cfg.Cloud.Auth.Username = v
	}
	if v := os.Getenv("LUMINA_CLOUD_PASSWORD"); v != "" {
		cfg.Cloud.Auth.Password = v
	}

	// API
	if v := os.Getenv("LUMINA_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Assistant / voice credentials
	if v := os.Getenv("LUMINA_ASSISTANT_API_KEY"); v != "" {
		cfg.Assistant.APIKey = v
	}
	if v := os.Getenv("LUMINA_VOICE_STT_API_KEY"); v != "" {
		cfg.Voice.STTAPIKey = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Cloud validation
	if c.Cloud.Broker.Host == "" {
		errs = append(errs, "cloud.broker.host is required")
	}
	if c.Cloud.Broker.Port < 1 || c.Cloud.Broker.Port > 65535 {
		errs = append(errs, "cloud.broker.port must be between 1 and 65535")
	}
	if c.Cloud.Auth.Username == "" {
		errs = append(errs, "cloud.auth.username is required (it names the device in broker topics)")
	}
	if c.Cloud.QoS < 0 || c.Cloud.QoS > 2 {
		errs = append(errs, "cloud.qos must be 0, 1, or 2")
	}
	if c.Cloud.Service.ServiceID == "" {
		errs = append(errs, "cloud.service.service_id is required")
	}
	if c.Cloud.Service.PropertyID == "" {
		errs = append(errs, "cloud.service.property_id is required")
	}
	if c.Cloud.Reconnect.RetryPeriod < 1 {
		errs = append(errs, "cloud.reconnect.retry_period must be at least 1 second")
	}

	// Device seed validation
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.ID == "" {
			errs = append(errs, fmt.Sprintf("devices[%d].id is required", i))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Sprintf("devices[%d].id %q is duplicated", i, d.ID))
		}
		seen[d.ID] = true
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetRetryPeriod returns the broker reconnect retry period as a Duration.
func (c *CloudConfig) GetRetryPeriod() time.Duration {
	return time.Duration(c.Reconnect.RetryPeriod) * time.Second
}

// GetMaxDelay returns the broker reconnect maximum delay as a Duration.
func (c *CloudConfig) GetMaxDelay() time.Duration {
	return time.Duration(c.Reconnect.MaxDelay) * time.Second
}
