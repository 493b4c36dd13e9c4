package relay

import (
	"context"
	"fmt"

	"github.com/nerrad567/targetplatform/internal/infrastructure/mqtt"
)

// Publisher is the part of the MQTT client the sink needs.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// MQTTSink publishes events on the variant's discovered/lost topic.
type MQTTSink struct {
	pub    Publisher
	topics mqtt.Topics
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher) *MQTTSink {
	return &MQTTSink{pub: pub}
}

// Deliver publishes ev.
func (s *MQTTSink) Deliver(_ context.Context, ev Event) error {
	var topic string
	switch ev.Kind {
	case KindDiscovered:
		topic = s.topics.DeviceDiscovered(ev.Variant)
	case KindLost:
		topic = s.topics.DeviceLost(ev.Variant)
	default:
		return fmt.Errorf("relay: unknown event kind %q", ev.Kind)
	}
	if err := s.pub.PublishJSON(topic, ev); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}
