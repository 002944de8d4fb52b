package intent

import (
	"fmt"

	"github.com/lumina-home/lumina-core/internal/device"
	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
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

// CommandPublisher emits one cloud property report per call.
type CommandPublisher interface {
	Publish(serviceID, propertyID string, value float64) error
}

// deviceStore is the registry surface the router drives.
type deviceStore interface {
	Get(id string) (*device.Device, error)
	Toggle(id string) (*device.Device, error)
	SetValue(id string, value float64) (*device.Device, error)
	SetValueForKind(kind device.Kind, value float64) int
}

// fullOnIntensity is the intensity a synchronized light reports when turned
// on without a remembered level.
const fullOnIntensity = 255

// Router is the single entry point for device control intents, regardless
// of where they originate (HTTP API, assistant function calls, voice).
//
// Every intent commits to the local registry first; the cloud report for
// the synchronized device happens after and is fire-and-forget. A failed
// or skipped report never rolls the local change back, so the dashboard
// always reflects what the user did.
type Router struct {
	registry  deviceStore
	publisher CommandPublisher
	binding   config.ServiceBinding
	logger    Logger
}

// NewRouter creates a router over the registry and cloud publisher.
func NewRouter(registry deviceStore, publisher CommandPublisher, binding config.ServiceBinding) *Router {
	return &Router{
		registry:  registry,
		publisher: publisher,
		binding:   binding,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	r.logger = logger
}

// Toggle flips a device on or off.
//
// For the synchronized device the new state is mirrored to the cloud:
// turning on reports the remembered intensity (or full brightness when none
// is remembered), turning off reports zero. All other devices stay local.
//
// Returns:
//   - *device.Device: a copy of the device after the toggle
//   - error: device.ErrDeviceNotFound for unknown ids
func (r *Router) Toggle(id string) (*device.Device, error) {
	d, err := r.registry.Toggle(id)
	if err != nil {
		return nil, fmt.Errorf("toggling device %s: %w", id, err)
	}

	if id == r.binding.DeviceID {
		value := 0.0
		if d.On {
			value = fullOnIntensity
			if d.Value != nil && *d.Value > 0 {
				value = *d.Value
			}
		}
		r.report(value)
	}
	return d, nil
}

// SetIntensity sets a light's intensity level.
//
// The value must lie in [0,255]; zero turns the light off, anything above
// turns it on. For the synchronized device every accepted change is
// reported to the cloud, one report per call.
//
// Returns:
//   - *device.Device: a copy of the device after the change
//   - error: ErrIntensityOutOfRange, or device.ErrDeviceNotFound
func (r *Router) SetIntensity(id string, value float64) (*device.Device, error) {
	if value < device.MinIntensity || value > device.MaxIntensity {
		return nil, fmt.Errorf("%w: %v", ErrIntensityOutOfRange, value)
	}

	d, err := r.registry.SetValue(id, value)
	if err != nil {
		return nil, fmt.Errorf("setting intensity on %s: %w", id, err)
	}

	if id == r.binding.DeviceID {
		r.report(value)
	}
	return d, nil
}

// SetTemperatureTarget sets the target temperature on every air conditioner.
// This is a local-only intent; no cloud report is produced.
//
// Returns:
//   - int: how many devices were updated
//   - error: ErrNoSuchKindDevice when no air conditioner is registered
func (r *Router) SetTemperatureTarget(value float64) (int, error) {
	count := r.registry.SetValueForKind(device.KindAC, value)
	if count == 0 {
		return 0, ErrNoSuchKindDevice
	}
	r.logger.Info("temperature target updated", "value", value, "devices", count)
	return count, nil
}

// report sends one property report for the synchronized binding.
// Report failures are logged and swallowed; local state has already
// committed by the time this runs.
func (r *Router) report(value float64) {
	if err := r.publisher.Publish(r.binding.ServiceID, r.binding.PropertyID, value); err != nil {
		r.logger.Warn("cloud report failed after local commit",
			"service_id", r.binding.ServiceID,
			"property_id", r.binding.PropertyID,
			"value", value,
			"error", err,
		)
	}
}
