package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every topic the service publishes or
// subscribes to.
const TopicPrefix = "targetplatform"

// Topic hierarchy:
//
//	targetplatform/device/{variant}/discovered   device added to a registry
//	targetplatform/device/{variant}/lost         device removed from a registry
//	targetplatform/announce/{variant}            remote agents announcing a device
//	targetplatform/system/status                 service online/offline (retained, LWT)
//
// Variant names ("LinuxNoEditor", "LinuxAArch64Server", ...) never contain
// '/', '+' or '#', so they are safe as topic levels.
type Topics struct{}

// DeviceDiscovered returns the topic a variant's added devices are published on.
//
// Example: targetplatform/device/LinuxNoEditor/discovered
func (Topics) DeviceDiscovered(variant string) string {
	return fmt.Sprintf("%s/device/%s/discovered", TopicPrefix, variant)
}

// DeviceLost returns the topic a variant's removed devices are published on.
//
// Example: targetplatform/device/LinuxNoEditor/lost
func (Topics) DeviceLost(variant string) string {
	return fmt.Sprintf("%s/device/%s/lost", TopicPrefix, variant)
}

// DeviceAnnounce returns the topic remote agents announce devices for a variant on.
//
// Example: targetplatform/announce/LinuxServer
func (Topics) DeviceAnnounce(variant string) string {
	return fmt.Sprintf("%s/announce/%s", TopicPrefix, variant)
}

// SystemStatus returns the service's online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// AllDeviceEvents matches discovered and lost events of every variant.
func (Topics) AllDeviceEvents() string {
	return TopicPrefix + "/device/#"
}

// AllDeviceAnnouncements matches announcements for every variant.
func (Topics) AllDeviceAnnouncements() string {
	return TopicPrefix + "/announce/+"
}

// ParseAnnounceTopic extracts the variant from an announce topic.
func (Topics) ParseAnnounceTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefix+"/announce/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
