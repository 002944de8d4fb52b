package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for the initial
	// connection attempt to resolve.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for a subscribe acknowledgment.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options from the cloud config.
//
// This configures:
//   - Broker URL: the cloud endpoint speaks MQTT over WebSocket, so the
//     scheme is wss:// (or ws:// for local test brokers) with a URL path
//     (normally /mqtt) appended
//   - Client ID and authentication credentials
//   - Auto-reconnect at a fixed retry period (the cloud contract expects a
//     periodic retry, not unbounded exponential growth)
//   - TLS configuration when enabled
//   - Clean session mode
func buildClientOptions(cfg config.CloudConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL: websocket transport with path
	scheme := "ws"
	if cfg.Broker.TLS {
		scheme = "wss"
	}
	path := cfg.Broker.Path
	if path == "" {
		path = "/mqtt"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d%s", scheme, cfg.Broker.Host, cfg.Broker.Port, path)
	opts.AddBroker(brokerURL)

	// Client identification
	opts.SetClientID(cfg.Broker.ClientID)

	// Authentication (if credentials provided)
	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	opts.SetCleanSession(true)

	// Auto-reconnect with a fixed retry period. Initial connect also retries
	// in the background so a broker outage at startup is not fatal.
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(cfg.GetRetryPeriod())
	opts.SetMaxReconnectInterval(cfg.GetMaxDelay())

	// Connection timeout per attempt
	opts.SetConnectTimeout(defaultConnectTimeout)

	// Keepalive - broker PINGs detect dead connections behind the websocket
	opts.SetKeepAlive(defaultKeepAlive)

	// TLS configuration if enabled
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}
