//go:build integration

package mqtt

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumina-home/lumina-core/internal/infrastructure/config"
)

// Integration tests for the broker client.
// These tests require a running MQTT broker at 127.0.0.1:1883 speaking
// plain WebSocket on /mqtt.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...
//
// Note: Some tests may be flaky in CI due to timing dependencies.
// Consider running with: go test -tags=integration -count=1 -v ...

func integrationConfig() config.CloudConfig {
	return config.CloudConfig{
		Broker: config.BrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			TLS:      false,
			Path:     "/mqtt",
			ClientID: "lumina-integration-test",
		},
		QoS: 1,
		Reconnect: config.ReconnectConfig{
			RetryPeriod: 1,
			MaxDelay:    5,
		},
	}
}

// TestIntegration_SubscriptionTracking verifies subscriptions are tracked
// so they can be restored after a reconnect.
func TestIntegration_SubscriptionTracking(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "lumina-int-sub-track"

	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	topics := []string{
		"lumina/int/test/topic1",
		"lumina/int/test/topic2",
		"lumina/int/test/topic3",
	}

	handler := func(topic string, payload []byte) error {
		return nil
	}

	for _, topic := range topics {
		if err := client.Subscribe(topic, 1, handler); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}

	if client.SubscriptionCount() != len(topics) {
		t.Errorf("SubscriptionCount() = %d, want %d", client.SubscriptionCount(), len(topics))
	}

	for _, topic := range topics {
		if !client.HasSubscription(topic) {
			t.Errorf("HasSubscription(%s) = false, want true", topic)
		}
	}
}

// TestIntegration_PublishSubscribeRoundTrip verifies a QoS-1 publish is
// delivered to a subscription on the same client.
func TestIntegration_PublishSubscribeRoundTrip(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "lumina-int-roundtrip"

	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	var received atomic.Int32
	topic := "lumina/int/test/roundtrip"

	err := client.Subscribe(topic, 1, func(_ string, payload []byte) error {
		if string(payload) == "ping" {
			received.Add(1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Publish(topic, []byte("ping"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for received.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("message not delivered within 5s")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// TestIntegration_HandlerPanicDoesNotKillClient verifies a panicking
// message handler is contained by the handler wrapper.
func TestIntegration_HandlerPanicDoesNotKillClient(t *testing.T) {
	cfg := integrationConfig()
	cfg.Broker.ClientID = "lumina-int-panic"

	client := New(cfg)
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	topic := "lumina/int/test/panic"
	if err := client.Subscribe(topic, 1, func(string, []byte) error {
		panic("handler blew up")
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Publish(topic, []byte("boom"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if !client.IsConnected() {
		t.Error("client disconnected after handler panic")
	}
}
