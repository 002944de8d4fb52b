// Package cloud maintains the broker session to the IoT cloud and carries
// device state across it in both directions.
//
// A Session owns the connection lifecycle: it drives the broker client,
// fans connectivity transitions out through a StatusNotifier and keeps the
// set-properties subscription registered across reconnects. A Publisher
// turns single property changes into QoS-1 property reports, and an Inbound
// handler applies cloud-initiated set-properties commands to the local
// device registry without echoing them back out.
//
// The package is deliberately one-device, one-property in scope: the
// config.ServiceBinding names which local device is mirrored to the cloud,
// and everything else stays local-only.
package cloud
