package cloud

import (
	"encoding/json"
	"fmt"
	"time"
)

// PropertyReport is the outbound message announcing device property values
// to the cloud. Constructed fresh per publish; never retained.
//
// Wire shape (JSON):
//
//	{"services":[{"service_id":"light","properties":{"dengguang":128},
//	  "event_time":"2026-01-07T16:00:00Z"}]}
type PropertyReport struct {
	Services []ServiceReport `json:"services"`
}

// ServiceReport carries one service's property values and the event time.
type ServiceReport struct {
	ServiceID  string             `json:"service_id"`
	Properties map[string]float64 `json:"properties"`
	EventTime  string             `json:"event_time"`
}

// NewPropertyReport builds a report for a single service.
// The event time is rendered as ISO-8601 UTC with no fractional seconds and
// a Z suffix, which is what the cloud endpoint accepts.
func NewPropertyReport(serviceID string, properties map[string]float64, at time.Time) PropertyReport {
	return PropertyReport{
		Services: []ServiceReport{
			{
				ServiceID:  serviceID,
				Properties: properties,
				EventTime:  at.UTC().Truncate(time.Second).Format(time.RFC3339),
			},
		},
	}
}

// Encode renders the report as JSON.
func (r PropertyReport) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding property report: %w", err)
	}
	return data, nil
}

// SetPropertiesCommand is the inbound message instructing the device to
// adopt new property values. Property values are decoded as loose JSON
// because the cloud side may send shapes this device does not understand;
// unrecognized services and properties are ignored, never fatal.
type SetPropertiesCommand struct {
	Services []ServiceSet `json:"services"`
}

// ServiceSet carries one service's requested property values.
type ServiceSet struct {
	ServiceID  string         `json:"service_id"`
	Properties map[string]any `json:"properties"`
}

// DecodeSetProperties parses an inbound set-properties payload.
//
// Returns:
//   - *SetPropertiesCommand: the decoded command
//   - error: if the payload is not valid JSON of the expected outer shape
func DecodeSetProperties(payload []byte) (*SetPropertiesCommand, error) {
	var cmd SetPropertiesCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return &cmd, nil
}

// numericValue coerces a decoded JSON property value to float64.
// Only JSON numbers are accepted; strings, booleans and nested shapes are
// not meaningful for the synchronized property and are skipped.
func numericValue(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
