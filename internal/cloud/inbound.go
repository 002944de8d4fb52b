package cloud

import (
	"fmt"

	"github.com/lumina-home/lumina-core/internal/activity"
	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
)

// deviceWriter is the registry surface the inbound handler mutates.
type deviceWriter interface {
	SetValue(id string, value float64) (*device.Device, error)
}

// Inbound applies cloud-initiated set-property commands to the local
// registry.
//
// Only the configured service/property binding is honoured; every other
// service block in a command is ignored. Applying a command never triggers
// an outbound report — cloud writes terminate locally, which keeps the
// report topic free of echo loops.
type Inbound struct {
	binding  config.ServiceBinding
	registry deviceWriter
	log      *activity.Log
	logger   Logger
}

// NewInbound creates a handler that maps set-property commands onto the
// device named by the binding.
func NewInbound(binding config.ServiceBinding, registry deviceWriter, log *activity.Log) *Inbound {
	return &Inbound{
		binding:  binding,
		registry: registry,
		log:      log,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the handler.
func (h *Inbound) SetLogger(logger Logger) {
	h.logger = logger
}

// Handle decodes one set-properties payload and applies any matching
// property write. It satisfies the broker message handler signature.
//
// Malformed payloads and non-numeric values are logged and dropped; the
// session stays up regardless of what the cloud sends.
func (h *Inbound) Handle(topic string, payload []byte) error {
	cmd, err := DecodeSetProperties(payload)
	if err != nil {
		h.logger.Warn("dropping malformed set-properties command", "topic", topic, "error", err)
		return err
	}

	for _, svc := range cmd.Services {
		if svc.ServiceID != h.binding.ServiceID {
			continue
		}
		raw, ok := svc.Properties[h.binding.PropertyID]
		if !ok {
			continue
		}
		value, ok := numericValue(raw)
		if !ok {
			h.logger.Warn("dropping non-numeric property value",
				"service_id", svc.ServiceID,
				"property_id", h.binding.PropertyID,
			)
			continue
		}

		if _, err := h.registry.SetValue(h.binding.DeviceID, value); err != nil {
			h.logger.Error("applying cloud property write failed",
				"device_id", h.binding.DeviceID,
				"value", value,
				"error", err,
			)
			h.log.Append(fmt.Sprintf("cloud update rejected: %s.%s = %v", h.binding.ServiceID, h.binding.PropertyID, value))
			continue
		}

		h.logger.Info("cloud property write applied",
			"device_id", h.binding.DeviceID,
			"property_id", h.binding.PropertyID,
			"value", value,
		)
		h.log.Append(fmt.Sprintf("cloud set %s.%s = %v", h.binding.ServiceID, h.binding.PropertyID, value))
	}
	return nil
}
