// Package intent routes device control intents to the registry and, for
// the cloud-synchronized device, on to the cloud publisher.
//
// Every caller that wants to change device state goes through the Router:
// the HTTP API, the conversational assistant's function calls and the voice
// pipeline all funnel into the same three intents (toggle, intensity,
// temperature target). That keeps the local-first-then-report ordering in
// one place instead of scattered across entry points.
package intent
