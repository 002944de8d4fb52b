package device

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// Registry is the canonical in-memory store of devices and environment
// readings. Devices are created once at process start from a fixed seed set
// and never destroyed during a session; only their state mutates.
//
// All public methods are thread-safe. Updates are read-modify-write on a
// single device record; there are no cross-device transactions. Returned
// devices are copies, so callers can never mutate registry state directly.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
	order   []string // seed order, for stable listing
	env     Environment
	logger  Logger
}

// NewRegistry creates an empty device registry.
// Populate it once at startup via Seed.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Seed populates the registry with the fixed startup set.
//
// Each device is validated: the kind must belong to the closed set, ids must
// be unique, and light values (when present) must lie in [0,255]. For kinds
// that derive on/off from value, a present value overrides the seeded flag.
//
// Returns:
//   - error: describing the first invalid seed entry, or nil
func (r *Registry) Seed(devices []Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range devices {
		d := devices[i]
		if d.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidSeed, i)
		}
		if !ValidKind(d.Kind) {
			return fmt.Errorf("%w: %q (device %s)", ErrInvalidKind, d.Kind, d.ID)
		}
		if _, dup := r.devices[d.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidSeed, d.ID)
		}
		if d.Kind == KindLight && d.Value != nil {
			if *d.Value < MinIntensity || *d.Value > MaxIntensity {
				return fmt.Errorf("%w: %v (device %s)", ErrValueOutOfRange, *d.Value, d.ID)
			}
		}
		if d.Kind.DerivesOnFromValue() && d.Value != nil {
			d.On = *d.Value > 0
		}

		r.devices[d.ID] = d.Copy()
		r.order = append(r.order, d.ID)
	}

	r.logger.Info("device registry seeded", "count", len(r.order))
	return nil
}

// Get retrieves a device by id.
// Returns ErrDeviceNotFound if the device does not exist.
// The returned device is a copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d.Copy(), nil
}

// List retrieves all devices in seed order.
// The returned devices are copies; callers can safely modify them.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, *r.devices[id].Copy())
	}
	return devices
}

// ListByKind retrieves all devices of a kind, in seed order.
func (r *Registry) ListByKind(kind Kind) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []Device
	for _, id := range r.order {
		if d := r.devices[id]; d.Kind == kind {
			devices = append(devices, *d.Copy())
		}
	}
	return devices
}

// Toggle flips a device's on/off flag atomically and returns a copy of the
// updated record. The numeric value is left untouched: toggling a light off
// remembers its last intensity so toggling back on can restore it.
func (r *Registry) Toggle(id string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	d.On = !d.On

	r.logger.Debug("device toggled", "id", id, "on", d.On)
	return d.Copy(), nil
}

// SetValue sets a device's numeric value atomically and returns a copy of
// the updated record. For kinds that derive on/off from value (lights), the
// On flag follows value > 0. Light values are validated against [0,255].
func (r *Registry) SetValue(id string, value float64) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	if d.Kind == KindLight && (value < MinIntensity || value > MaxIntensity) {
		return nil, fmt.Errorf("%w: %v", ErrValueOutOfRange, value)
	}

	d.Value = &value
	if d.Kind.DerivesOnFromValue() {
		d.On = value > 0
	}

	r.logger.Debug("device value updated", "id", id, "value", value, "on", d.On)
	return d.Copy(), nil
}

// SetValueForKind sets the value on every device of the given kind and
// returns how many devices were updated. Used for the AC target temperature,
// which applies to all air-conditioner devices at once. On flags are not
// touched for kinds that keep on/off independent of value.
func (r *Registry) SetValueForKind(kind Kind, value float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, id := range r.order {
		d := r.devices[id]
		if d.Kind != kind {
			continue
		}
		v := value
		d.Value = &v
		if d.Kind.DerivesOnFromValue() {
			d.On = value > 0
		}
		count++
	}

	r.logger.Debug("kind value updated", "kind", kind, "value", value, "count", count)
	return count
}

// Count returns the number of registered devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// SetEnvironment stores the ambient readings.
// Called once at startup; there is no inbound sensor path in this release.
func (r *Registry) SetEnvironment(env Environment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env = env
}

// Environment returns the current ambient readings.
func (r *Registry) Environment() Environment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.env
}
