// Package device holds the canonical in-memory device model for Lumina Core.
//
// The registry is seeded once at process start from configuration and is the
// single source of truth the dashboard renders from. It is mutated from two
// directions only:
//
//   - the intent router, for user- and assistant-originated changes
//   - the inbound command handler, for cloud-originated set-property commands
//
// Both paths go through atomic per-device read-modify-write operations; the
// registry never exposes interior pointers.
//
// The kind policy table (Kind.DerivesOnFromValue) decides which device kinds
// couple their on/off flag to their numeric value. Lights derive on from
// intensity > 0; doors and the air conditioner keep the flag independent.
package device
