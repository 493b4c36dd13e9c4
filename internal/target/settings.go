package target

import (
	"fmt"

	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/formats"
)

// Config section and key names shared by every Linux variant.
const (
	DefaultSection   = "/Script/LinuxTargetPlatform.LinuxTargetSettings"
	DefaultKeyPrefix = "LinuxTargetPlatfrom"

	KeyTargetedRHIs = "TargetedRHIs"
	KeyCookDXT      = "bCookDXTTextures"
	KeyCookBC       = "bCookBCTextures"
	KeyCookETC2     = "bCookETC2Textures"
)

// StoreSettings reads negotiation settings from a config store on every
// call, falling back to formats.DefaultSettings for missing flags.
type StoreSettings struct {
	store   configstore.Store
	section string
}

// NewStoreSettings creates a settings source over one config section.
func NewStoreSettings(store configstore.Store, section string) *StoreSettings {
	return &StoreSettings{store: store, section: section}
}

// Settings implements formats.SettingsSource.
func (s *StoreSettings) Settings() formats.Settings {
	out := formats.DefaultSettings()

	if rhis, ok := s.store.GetArray(s.section, KeyTargetedRHIs); ok {
		out.TargetedShaderFormats = formats.FromStrings(rhis)
	}
	if v, ok := s.store.GetBool(s.section, KeyCookDXT); ok {
		out.CookDXT = v
	}
	if v, ok := s.store.GetBool(s.section, KeyCookBC); ok {
		out.CookBC = v
	}
	if v, ok := s.store.GetBool(s.section, KeyCookETC2); ok {
		out.CookETC2 = v
	}
	return out
}

// Save writes the settings back and flushes the store.
func (s *StoreSettings) Save(v formats.Settings) error {
	s.store.SetArray(s.section, KeyTargetedRHIs, formats.Strings(v.TargetedShaderFormats))
	s.store.SetBool(s.section, KeyCookDXT, v.CookDXT)
	s.store.SetBool(s.section, KeyCookBC, v.CookBC)
	s.store.SetBool(s.section, KeyCookETC2, v.CookETC2)

	if err := s.store.Flush(); err != nil {
		return fmt.Errorf("saving target settings: %w", err)
	}
	return nil
}
