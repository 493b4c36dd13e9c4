package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/targetplatform/internal/device"
	"github.com/nerrad567/targetplatform/internal/infrastructure/mqtt"
	"github.com/nerrad567/targetplatform/internal/target"
)

// ErrAnnouncementRejected is returned when the registry refuses an
// announced device.
var ErrAnnouncementRejected = errors.New("relay: announcement rejected")

// Subscriber is the part of the MQTT client the announcer needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Announcement is the payload a remote agent publishes on
// targetplatform/announce/{variant}.
type Announcement struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// Announcer adds devices announced over MQTT to the module's targets.
type Announcer struct {
	module *target.Module
	topics mqtt.Topics
	logger Logger
}

// NewAnnouncer creates an announcer for m. A nil logger discards output.
func NewAnnouncer(m *target.Module, logger Logger) *Announcer {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Announcer{module: m, logger: logger}
}

// Listen subscribes to announcements for every variant.
func (a *Announcer) Listen(sub Subscriber, qos byte) error {
	topic := a.topics.AllDeviceAnnouncements()
	if err := sub.Subscribe(topic, qos, a.Handle); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	a.logger.Info("listening for device announcements", "topic", topic)
	return nil
}

// Handle processes one announcement message. Re-announcing a known device
// is not an error.
func (a *Announcer) Handle(topic string, payload []byte) error {
	variant, ok := a.topics.ParseAnnounceTopic(topic)
	if !ok {
		return fmt.Errorf("relay: not an announce topic: %q", topic)
	}

	var ann Announcement
	if err := json.Unmarshal(payload, &ann); err != nil {
		return fmt.Errorf("decoding announcement on %s: %w", topic, err)
	}
	if err := device.ValidateName(ann.Name); err != nil {
		return fmt.Errorf("announcement on %s: %w", topic, err)
	}
	if err := device.ValidateDisplayName(ann.DisplayName); err != nil {
		return fmt.Errorf("announcement on %s: %w", topic, err)
	}

	t, err := a.module.Target(variant)
	if err != nil {
		return err
	}

	if _, known := t.GetDevice(device.ID{Platform: t.Name(), Name: ann.Name}); known {
		a.logger.Debug("device already known", "target", t.Name(), "device", ann.Name)
		return nil
	}
	if !t.AddDevice(ann.Name, ann.DisplayName, ann.Username, ann.Password, false) {
		return fmt.Errorf("%w: %s on %s", ErrAnnouncementRejected, ann.Name, t.Name())
	}
	a.logger.Info("device announced", "target", t.Name(), "device", ann.Name)
	return nil
}
