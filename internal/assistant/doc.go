// Package assistant provides the conversational interface over the device
// registry, backed by the Gemini API.
//
// Chat turns are stateless. Each call rebuilds the system instruction from
// the live registry (environment readings plus one line per device) and
// exposes a single control_device function the model can call to switch
// devices. Requested controls are executed through the same intent path as
// manual dashboard actions, so a cloud-synchronized device reports to the
// cloud no matter who flipped it.
//
// The assistant degrades, never breaks: model errors produce a canned
// fallback reply rather than an error, and a missing API key disables the
// feature at construction time.
package assistant
