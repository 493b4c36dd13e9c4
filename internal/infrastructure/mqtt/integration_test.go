//go:build integration

package mqtt

import (
	"sync"
	"testing"
	"time"
)

// Integration tests against a running broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func connectForTest(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIntegration_Connect(t *testing.T) {
	client := connectForTest(t, "targetplatform-int-connect")

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestIntegration_AnnounceRoundtrip(t *testing.T) {
	sub := connectForTest(t, "targetplatform-int-sub")
	pub := connectForTest(t, "targetplatform-int-pub")

	var (
		mu       sync.Mutex
		received []string
		done     = make(chan struct{}, 1)
	)
	err := sub.Subscribe(Topics{}.AllDeviceAnnouncements(), 1, func(topic string, _ []byte) error {
		mu.Lock()
		received = append(received, topic)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !sub.HasSubscription(Topics{}.AllDeviceAnnouncements()) {
		t.Error("subscription not tracked")
	}

	if err := pub.PublishJSON(Topics{}.DeviceAnnounce("LinuxServer"), map[string]string{"name": "build-07"}); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("announcement not received")
	}

	mu.Lock()
	defer mu.Unlock()
	if want := (Topics{}).DeviceAnnounce("LinuxServer"); received[0] != want {
		t.Errorf("topic = %q", received[0])
	}

	if err := sub.Unsubscribe(Topics{}.AllDeviceAnnouncements()); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
}

func TestIntegration_CloseIsIdempotent(t *testing.T) {
	client := connectForTest(t, "targetplatform-int-close")

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}
