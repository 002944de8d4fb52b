package mqtt

import "testing"

func TestTopics_PropertiesReport(t *testing.T) {
	got := Topics{}.PropertiesReport("693118372447a4269a6466e2_TEST")
	want := "$oc/devices/693118372447a4269a6466e2_TEST/sys/properties/report"
	if got != want {
		t.Errorf("PropertiesReport() = %q, want %q", got, want)
	}
}

func TestTopics_PropertiesSet(t *testing.T) {
	got := Topics{}.PropertiesSet("693118372447a4269a6466e2_TEST")
	want := "$oc/devices/693118372447a4269a6466e2_TEST/sys/properties/set/#"
	if got != want {
		t.Errorf("PropertiesSet() = %q, want %q", got, want)
	}
}
