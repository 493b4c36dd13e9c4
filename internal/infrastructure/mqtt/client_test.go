package mqtt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration. Only the integration
// tests dial it.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "targetplatform-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnected returns a client that never dialled a broker.
func disconnected() *Client {
	return &Client{
		cfg:           testConfig(),
		subscriptions: make(map[string]subscription),
	}
}

type mockLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"DeviceDiscovered", Topics{}.DeviceDiscovered("LinuxNoEditor"), "targetplatform/device/LinuxNoEditor/discovered"},
		{"DeviceLost", Topics{}.DeviceLost("LinuxServer"), "targetplatform/device/LinuxServer/lost"},
		{"DeviceAnnounce", Topics{}.DeviceAnnounce("LinuxClient"), "targetplatform/announce/LinuxClient"},
		{"SystemStatus", Topics{}.SystemStatus(), "targetplatform/system/status"},
		{"AllDeviceEvents", Topics{}.AllDeviceEvents(), "targetplatform/device/#"},
		{"AllDeviceAnnouncements", Topics{}.AllDeviceAnnouncements(), "targetplatform/announce/+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestParseAnnounceTopic(t *testing.T) {
	tests := []struct {
		topic   string
		variant string
		ok      bool
	}{
		{"targetplatform/announce/LinuxNoEditor", "LinuxNoEditor", true},
		{"targetplatform/announce/", "", false},
		{"targetplatform/announce/Linux/extra", "", false},
		{"targetplatform/device/Linux/discovered", "", false},
		{"other/announce/Linux", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			variant, ok := Topics{}.ParseAnnounceTopic(tt.topic)
			if variant != tt.variant || ok != tt.ok {
				t.Errorf("ParseAnnounceTopic(%q) = (%q, %v), want (%q, %v)",
					tt.topic, variant, ok, tt.variant, tt.ok)
			}
		})
	}
}

func TestParseAnnounceTopic_RoundTrip(t *testing.T) {
	for _, variant := range []string{"Linux", "LinuxAArch64Server"} {
		got, ok := Topics{}.ParseAnnounceTopic(Topics{}.DeviceAnnounce(variant))
		if !ok || got != variant {
			t.Errorf("round trip of %q = (%q, %v)", variant, got, ok)
		}
	}
}

// =============================================================================
// Option Tests
// =============================================================================

func TestBrokerURL(t *testing.T) {
	cfg := testConfig()
	if got := brokerURL(cfg); got != "tcp://127.0.0.1:1883" {
		t.Errorf("brokerURL() = %q", got)
	}

	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883
	if got := brokerURL(cfg); got != "ssl://127.0.0.1:8883" {
		t.Errorf("brokerURL() with TLS = %q", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "cook"
	cfg.Auth.Password = "secret"
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if opts.ClientID != "targetplatform-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "cook" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("expected auto-reconnect and clean session")
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("expected TLS config with minimum version")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "targetplatform-test")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false")
	}
	if want := (Topics{}).SystemStatus(); opts.WillTopic != want {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	if !opts.WillRetained || opts.WillQos != 1 {
		t.Errorf("will retained=%v qos=%d", opts.WillRetained, opts.WillQos)
	}
	if !strings.Contains(string(opts.WillPayload), `"reason":"unexpected_disconnect"`) {
		t.Errorf("WillPayload = %s", opts.WillPayload)
	}
}

func TestStatusPayload(t *testing.T) {
	online := statusPayload("svc", "online", "")
	if strings.Contains(online, "reason") {
		t.Errorf("online payload has a reason: %s", online)
	}
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, `"client_id":"svc"`) {
		t.Errorf("online payload = %s", online)
	}

	offline := statusPayload("svc", "offline", "graceful_shutdown")
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload = %s", offline)
	}
}

// =============================================================================
// Validation Tests (no broker)
// =============================================================================

func TestPublish_Validation(t *testing.T) {
	c := disconnected()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "t", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "t", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "t", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPublishJSON_EncodeFailure(t *testing.T) {
	err := disconnected().PublishJSON("t", func() {})
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON() error = %v, want ErrPublishFailed", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := disconnected()
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v", err)
	}
	if err := c.Subscribe("t", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos: %v", err)
	}
	if err := c.Subscribe("t", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: %v", err)
	}
	if err := c.Subscribe("t", 1, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: %v", err)
	}
	if c.HasSubscription("t") {
		t.Error("failed subscription was tracked")
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	c := disconnected()

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: %v", err)
	}
	if err := c.Unsubscribe("t"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: %v", err)
	}
}

func TestHealthCheck_NoBroker(t *testing.T) {
	c := disconnected()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() cancelled error = %v", err)
	}
}

func TestClose_NeverConnected(t *testing.T) {
	if err := disconnected().Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// =============================================================================
// Handler Dispatch Tests
// =============================================================================

func TestDispatch_LogsHandlerError(t *testing.T) {
	c := disconnected()
	logger := &mockLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { return errors.New("bad payload") }, "t", nil)

	if len(logger.warns) != 1 {
		t.Errorf("warns = %v, want one", logger.warns)
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	c := disconnected()
	logger := &mockLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)

	if len(logger.errors) != 1 {
		t.Errorf("errors = %v, want one", logger.errors)
	}
}

func TestDispatch_NoLogger(t *testing.T) {
	c := disconnected()
	// Must not panic without a logger.
	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)
}

func TestCallbacks(t *testing.T) {
	c := disconnected()

	var lost error
	c.SetOnDisconnect(func(err error) { lost = err })
	c.handleDisconnect(errors.New("network down"))

	if lost == nil || lost.Error() != "network down" {
		t.Errorf("onDisconnect got %v", lost)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after disconnect")
	}
}
