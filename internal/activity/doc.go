// Package activity keeps a bounded in-memory trail of connection and
// command events for diagnostic display on the dashboard.
//
// The log is purely in-memory: nothing survives a restart, by design.
// Producers append one-line human-readable messages; the UI reads the
// newest-first slice and renders it as-is.
package activity
