package assistant

import (
	"fmt"
	"strings"
)

// systemInstruction builds the per-turn system instruction: assistant
// persona, the live environment readings and a line per device with its
// current state. The model sees device ids so control_device calls can
// reference them directly.
func systemInstruction(registry deviceReader) string {
	var b strings.Builder

	b.WriteString("You are Lumina, the assistant for a smart home dashboard. ")
	b.WriteString("Answer briefly and in the user's language. ")
	b.WriteString("When the user asks to switch a device on or off, call the ")
	b.WriteString(controlDeviceTool)
	b.WriteString(" function instead of describing what to do.\n\n")

	env := registry.Environment()
	fmt.Fprintf(&b, "Home environment: %.1f°C, %.0f%% humidity, air quality %s.\n\n",
		env.Temperature, env.Humidity, env.AirQuality)

	b.WriteString("Devices:\n")
	for _, d := range registry.List() {
		state := "off"
		if d.On {
			state = "on"
		}
		fmt.Fprintf(&b, "- %s (id: %s, kind: %s): %s", d.Name, d.ID, d.Kind, state)
		if d.Value != nil {
			fmt.Fprintf(&b, ", value %v%s", *d.Value, d.Unit)
		}
		b.WriteString("\n")
	}

	return b.String()
}
