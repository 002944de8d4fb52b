package mqtt

import "fmt"

// Topic builders for the cloud device-property namespace.
//
// The cloud addresses every device's system topics under a reserved prefix:
//
//	$oc/devices/{deviceID}/sys/...
//
// where deviceID is the broker username configured for this installation.
// Two topics matter to this application: the outbound property report and
// the inbound set-properties command tree.
const topicPrefix = "$oc/devices"

// Topics provides builders for cloud MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// PropertiesReport returns the outbound topic for device property reports.
//
// Example: $oc/devices/693118372447a4269a6466e2_TEST/sys/properties/report
func (Topics) PropertiesReport(deviceID string) string {
	return fmt.Sprintf("%s/%s/sys/properties/report", topicPrefix, deviceID)
}

// PropertiesSet returns the subscription pattern matching all inbound
// set-properties commands addressed to this device.
//
// Example: $oc/devices/693118372447a4269a6466e2_TEST/sys/properties/set/#
func (Topics) PropertiesSet(deviceID string) string {
	return fmt.Sprintf("%s/%s/sys/properties/set/#", topicPrefix, deviceID)
}
