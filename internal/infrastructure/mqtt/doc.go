// Package mqtt provides MQTT client connectivity for Lumina Core.
//
// This package manages:
//   - Connection to the cloud IoT broker over secure WebSocket (wss://.../mqtt)
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Automatic reconnection at a fixed retry period, with subscription restore
//
// # Architecture
//
// Lumina reports device properties to, and receives set-property commands
// from, a cloud message broker. The browserless Go core uses the same wire
// contract the cloud expects from any device: MQTT 3.1.1 carried over TLS
// WebSocket on port 443, with the device identity in the username and all
// system topics under $oc/devices/{deviceID}/sys/.
//
//	Lumina Core ↔ wss broker endpoint ↔ cloud device shadow
//
// # Security Considerations
//
//   - TLS 1.2+ is required for the production endpoint (cfg.Broker.TLS=true)
//   - Credentials are static per-device (client id, username, password token)
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client := mqtt.New(cfg.Cloud)
//	client.SetOnConnect(func() { ... })
//	if err := client.Connect(); err != nil {
//	    // initial attempt failed; background retries continue
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.PropertiesReport(cfg.Cloud.Auth.Username)
//	client.Publish(topic, payload, 1, false)
package mqtt
