package device

// Kind represents the closed set of device kinds known to the dashboard.
type Kind string

// Kind constants.
const (
	KindLight  Kind = "light"
	KindDoor   Kind = "door"
	KindAC     Kind = "ac"
	KindSensor Kind = "sensor"
)

// AllKinds returns all valid kind values.
func AllKinds() []Kind {
	return []Kind{KindLight, KindDoor, KindAC, KindSensor}
}

// ValidKind reports whether k is a member of the closed kind set.
func ValidKind(k Kind) bool {
	switch k {
	case KindLight, KindDoor, KindAC, KindSensor:
		return true
	default:
		return false
	}
}

// Intensity bounds for light devices.
const (
	MinIntensity = 0
	MaxIntensity = 255
)

// Device represents one controllable or monitorable entity in the home.
//
// On carries the boolean state: lit for lights, locked for doors, running
// for the air conditioner. Value is optional and kind-dependent: lighting
// intensity in [0,255] for lights, target temperature for the AC.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	On    bool     `json:"on"`
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// Copy returns an independent copy of the Device.
// The Value pointer is cloned so mutations on the copy never reach the original.
func (d *Device) Copy() *Device {
	if d == nil {
		return nil
	}
	cpy := *d
	if d.Value != nil {
		v := *d.Value
		cpy.Value = &v
	}
	return &cpy
}

// DerivesOnFromValue reports whether this kind couples its on/off flag to
// its numeric value (value > 0 implies on). Lights do; doors and the AC
// keep on/off independent of value, and sensors have no switchable state.
//
// This is the per-kind policy table that replaces checking one hardcoded
// device id.
func (k Kind) DerivesOnFromValue() bool {
	return k == KindLight
}

// Environment holds the ambient readings shown on the dashboard.
// In this release it is initialized once and read-only; there is no inbound
// sensor path.
type Environment struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	AirQuality  string  `json:"air_quality"`
}
