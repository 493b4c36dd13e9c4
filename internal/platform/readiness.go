package platform

import "strings"

// ReadyStatus is a bit set describing why a target is not ready to build.
// Zero means ready.
type ReadyStatus int

// Readiness flags.
const (
	Ready              ReadyStatus = 0
	SDKNotFound        ReadyStatus = 1 << 0
	CodeUnsupported    ReadyStatus = 1 << 1
	PluginsUnsupported ReadyStatus = 1 << 2
)

// Has reports whether every flag in mask is set.
func (s ReadyStatus) Has(mask ReadyStatus) bool {
	return s&mask == mask
}

// String renders the set flags, e.g. "sdk_not_found|code_unsupported".
func (s ReadyStatus) String() string {
	if s == Ready {
		return "ready"
	}

	var parts []string
	if s.Has(SDKNotFound) {
		parts = append(parts, "sdk_not_found")
	}
	if s.Has(CodeUnsupported) {
		parts = append(parts, "code_unsupported")
	}
	if s.Has(PluginsUnsupported) {
		parts = append(parts, "plugins_unsupported")
	}
	return strings.Join(parts, "|")
}
