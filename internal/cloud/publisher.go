package cloud

import (
	"fmt"
	"time"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
	"github.com/lumina-home/lumina-core/internal/infrastructure/mqtt"
)

// reportClient is the subset of the broker client a publisher needs.
type reportClient interface {
	IsConnected() bool
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Publisher serializes single property updates into QoS-1 property reports
// on the cloud report topic.
//
// A publish while the session is not connected is a deliberate no-op: it
// logs a warning and returns nil. It never queues, never retries and never
// surfaces an error to the caller for the offline case — local state is the
// display source of truth and the cloud is best-effort.
type Publisher struct {
	client reportClient
	cfg    config.CloudConfig
	log    *activity.Log
	logger Logger

	// now is the clock for report event times; replaceable in tests.
	now func() time.Time
}

// NewPublisher creates a publisher over the given broker client.
func NewPublisher(cfg config.CloudConfig, client reportClient, log *activity.Log) *Publisher {
	return &Publisher{
		client: client,
		cfg:    cfg,
		log:    log,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the publisher.
func (p *Publisher) SetLogger(logger Logger) {
	p.logger = logger
}

// Publish emits one property report for (serviceID, propertyID, value).
//
// Preconditions: non-empty identifiers. Each call produces at most one
// broker publish — there is no batching or debounce, so rapid slider drags
// map to one report per change event.
//
// Returns:
//   - nil when the report was accepted by the transport, or when the
//     session was offline and the report was skipped
//   - ErrInvalidIdentifier for empty identifiers
//   - a wrapped transport error when the send itself failed; callers treat
//     this as fire-and-forget and must not roll back local state
func (p *Publisher) Publish(serviceID, propertyID string, value float64) error {
	if serviceID == "" || propertyID == "" {
		return ErrInvalidIdentifier
	}

	if !p.client.IsConnected() {
		p.logger.Warn("publish skipped, broker not connected",
			"service_id", serviceID,
			"property_id", propertyID,
			"value", value,
		)
		p.log.Append(fmt.Sprintf("report skipped (offline): %s.%s = %v", serviceID, propertyID, value))
		return nil
	}

	report := NewPropertyReport(serviceID, map[string]float64{propertyID: value}, p.now())
	payload, err := report.Encode()
	if err != nil {
		return err
	}

	topic := mqtt.Topics{}.PropertiesReport(p.cfg.Auth.Username)
	if err := p.client.Publish(topic, payload, byte(p.cfg.QoS), false); err != nil {
		p.logger.Error("property report failed",
			"topic", topic,
			"property_id", propertyID,
			"error", err,
		)
		p.log.Append(fmt.Sprintf("report failed: %s.%s = %v", serviceID, propertyID, value))
		return fmt.Errorf("publishing property report: %w", err)
	}

	p.logger.Debug("property reported", "topic", topic, "property_id", propertyID, "value", value)
	p.log.Append(fmt.Sprintf("reported %s.%s = %v", serviceID, propertyID, value))
	return nil
}
