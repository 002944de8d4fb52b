package cloud

import (
	"fmt"
	"sync"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
	"github.com/lumina-home/lumina-core/internal/infrastructure/mqtt"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// BrokerClient is the subset of the infrastructure MQTT client the session
// layer depends on. Narrowing to an interface keeps the session testable
// without a live broker.
type BrokerClient interface {
	Connect() error
	Close() error
	IsConnected() bool
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	SetOnConnect(func())
	SetOnConnectionLost(func(error))
	SetOnReconnecting(func())
}

// defaultSyncedIntensity is the cloud-side default for the synchronized
// light property, applied locally after the first successful connect.
// The cloud shadow query API is not wired; this static value stands in for
// the initial snapshot the prototype dashboard fetched.
const defaultSyncedIntensity = 125

// Session owns the single connection to the cloud broker for the lifetime
// of the application: connect and reconnect supervision, the inbound
// set-properties subscription, and status fan-out.
//
// Exactly one live transport exists per session. Reconnection runs in the
// background at the configured fixed retry period and may race with
// user-initiated publishes; publishes during an outage fail fast at the
// Publisher layer rather than queueing.
//
// Create a session at startup, call Connect once, and Close at shutdown.
type Session struct {
	cfg      config.CloudConfig
	client   BrokerClient
	notifier *StatusNotifier
	log      *activity.Log
	logger   Logger

	// inbound is the handler for cloud-issued set-properties commands.
	// Must be set before Connect.
	inbound mqtt.MessageHandler

	mu         sync.Mutex
	connected  bool // has Connect been called
	subscribed bool // has the set-properties subscription been registered
	closed     bool
}

// NewSession creates a session over the given broker client.
// Nothing connects until Connect is called.
func NewSession(cfg config.CloudConfig, client BrokerClient, notifier *StatusNotifier, log *activity.Log) *Session {
	return &Session{
		cfg:      cfg,
		client:   client,
		notifier: notifier,
		log:      log,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the session.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// SetInboundHandler registers the handler for inbound set-properties
// commands. It must be called before Connect; the subscription itself is
// established on the first successful connect and restored automatically
// on every reconnect.
func (s *Session) SetInboundHandler(handler mqtt.MessageHandler) {
	s.inbound = handler
}

// Connect initiates the broker connection and resolves the initial attempt.
//
// The returned error reflects only the first attempt: nil when the broker
// accepted the connection, an error when the attempt failed or timed out.
// Either way the session keeps running in the background — the transport
// layer retries at the fixed retry period, and every transition
// (connecting, connected, error, disconnected) is delivered to the status
// notifier. A failed initial attempt is therefore not fatal to the caller.
//
// Connect is idempotent: repeated calls while the session is live do not
// open a second transport.
func (s *Session) Connect() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.connected {
		s.mu.Unlock()
		return nil
	}
	s.connected = true
	s.mu.Unlock()

	s.client.SetOnConnect(s.handleConnect)
	s.client.SetOnConnectionLost(s.handleConnectionLost)
	s.client.SetOnReconnecting(s.handleReconnecting)

	s.notifier.Notify(StatusConnecting)
	s.log.Append("connecting to cloud broker")

	if err := s.client.Connect(); err != nil {
		s.notifier.Notify(StatusError)
		s.log.Append(fmt.Sprintf("cloud connection failed: %v", err))
		s.logger.Warn("initial broker connection failed, retrying in background",
			"error", err,
			"retry_period", s.cfg.GetRetryPeriod(),
		)
		return fmt.Errorf("connecting to cloud broker: %w", err)
	}

	return nil
}

// handleConnect runs on the initial connect and on every reconnect.
// The set-properties subscription is registered exactly once here; on later
// reconnects the transport layer restores it before this callback fires, so
// no duplicate broker-side subscriptions are created.
func (s *Session) handleConnect() {
	s.notifier.Notify(StatusConnected)
	s.log.Append("connected to cloud broker")
	s.logger.Info("cloud broker connected",
		"host", s.cfg.Broker.Host,
		"client_id", s.cfg.Broker.ClientID,
	)

	if s.inbound == nil {
		s.logger.Warn("no inbound handler registered, skipping command subscription")
		return
	}

	// The transport layer restores tracked subscriptions on reconnect before
	// this callback fires, so registering here more than once would double
	// the broker-side subscription on the first reconnect.
	s.mu.Lock()
	already := s.subscribed
	s.mu.Unlock()
	if already {
		return
	}

	topic := mqtt.Topics{}.PropertiesSet(s.cfg.Auth.Username)
	if err := s.client.Subscribe(topic, byte(s.cfg.QoS), s.inbound); err != nil {
		// Not fatal: outbound reports still work without the inbound path.
		s.logger.Error("set-properties subscription failed", "topic", topic, "error", err)
		s.log.Append("command subscription failed")
		return
	}

	s.mu.Lock()
	s.subscribed = true
	s.mu.Unlock()
	s.logger.Info("subscribed to set-properties commands", "topic", topic)
}

// handleConnectionLost runs when an established connection drops.
func (s *Session) handleConnectionLost(err error) {
	s.notifier.Notify(StatusDisconnected)
	s.log.Append("cloud connection lost")
	s.logger.Warn("cloud broker connection lost", "error", err)
}

// handleReconnecting runs before each background reconnect attempt.
func (s *Session) handleReconnecting() {
	s.notifier.Notify(StatusConnecting)
}

// InitialProperties returns the cloud-side property snapshot to apply after
// the first successful connect. See defaultSyncedIntensity.
func (s *Session) InitialProperties() map[string]float64 {
	return map[string]float64{
		s.cfg.Service.PropertyID: defaultSyncedIntensity,
	}
}

// Status returns the current connection status.
func (s *Session) Status() Status {
	return s.notifier.Current()
}

// IsConnected reports whether the transport is currently connected.
func (s *Session) IsConnected() bool {
	return s.client.IsConnected()
}

// Close shuts the session down and releases the transport.
// A closed session cannot be reconnected.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("closing broker client: %w", err)
	}
	s.notifier.Notify(StatusDisconnected)
	s.log.Append("cloud session closed")
	return nil
}
