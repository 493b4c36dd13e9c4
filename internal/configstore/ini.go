package configstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/ini.v1"
)

// iniDirPermissions is the permission mode for the writable layer's directory.
const iniDirPermissions = 0750

// Ini is a Store backed by layered ini files.
//
// Layers are consulted from the writable layer down to the first base
// layer; the first layer that holds a key wins. Writes and removals only
// touch the writable layer, so a key removed there can still be visible
// from a base layer.
//
// String arrays are stored as repeated keys:
//
//	[/Script/LinuxTargetPlatform.LinuxTargetSettings]
//	TargetedRHIs = SF_VULKAN_SM5
//	TargetedRHIs = SF_VULKAN_ES31
type Ini struct {
	mu     sync.RWMutex
	base   []*ini.File
	top    *ini.File
	path   string
	loaded []string
}

func iniOptions(loose bool) ini.LoadOptions {
	return ini.LoadOptions{
		AllowShadows: true,
		// A value ending in a backslash is a value, not a line continuation.
		IgnoreContinuation: true,
		Loose:              loose,
	}
}

// OpenIni loads the writable layer at path (created on first Flush if it
// does not exist) on top of the given base layers, lowest priority first.
// Base layers must exist. An empty path keeps the writable layer in memory.
func OpenIni(path string, baseLayers ...string) (*Ini, error) {
	s := &Ini{path: path}

	for _, layer := range baseLayers {
		f, err := ini.LoadSources(iniOptions(false), layer)
		if err != nil {
			return nil, fmt.Errorf("loading base layer %s: %w", layer, err)
		}
		s.base = append(s.base, f)
		s.loaded = append(s.loaded, layer)
	}

	if path == "" {
		s.top = ini.Empty(iniOptions(true))
		return s, nil
	}

	top, err := ini.LoadSources(iniOptions(true), path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s.top = top
	s.loaded = append(s.loaded, path)

	return s, nil
}

// Path returns the writable layer's file path.
func (s *Ini) Path() string {
	return s.path
}

// Layers returns the files that were loaded, lowest priority first.
func (s *Ini) Layers() []string {
	out := make([]string, len(s.loaded))
	copy(out, s.loaded)
	return out
}

// lookupKey finds a key by exact name in one section of one file.
// Section.GetKey also searches parent sections split on ".", which would
// leak keys between "/Script/A" and "/Script/A.B".
func lookupKey(f *ini.File, section, key string) *ini.Key {
	sec, err := f.GetSection(section)
	if err != nil {
		return nil
	}
	for _, k := range sec.Keys() {
		if k.Name() == key {
			return k
		}
	}
	return nil
}

// find walks the layers from the top and returns the first match.
func (s *Ini) find(section, key string) *ini.Key {
	if k := lookupKey(s.top, section, key); k != nil {
		return k
	}
	for i := len(s.base) - 1; i >= 0; i-- {
		if k := lookupKey(s.base[i], section, key); k != nil {
			return k
		}
	}
	return nil
}

// GetString returns the first value of the key.
func (s *Ini) GetString(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := s.find(section, key)
	if k == nil {
		return "", false
	}
	return k.String(), true
}

// GetBool parses the key as a boolean.
func (s *Ini) GetBool(section, key string) (bool, bool) {
	v, ok := s.GetString(section, key)
	if !ok {
		return false, false
	}
	return parseBool(v)
}

// GetArray returns every value of a repeated key.
func (s *Ini) GetArray(section, key string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := s.find(section, key)
	if k == nil {
		return nil, false
	}
	return k.ValueWithShadows(), true
}

// SetString stores a single value in the writable layer.
func (s *Ini) SetString(section, key, value string) {
	s.SetArray(section, key, []string{value})
}

// SetBool stores a boolean in the writable layer.
func (s *Ini) SetBool(section, key string, value bool) {
	s.SetString(section, key, formatBool(value))
}

// SetArray replaces the key in the writable layer with the given values.
// An empty list removes the key.
func (s *Ini) SetArray(section, key string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.top.Section(section)
	sec.DeleteKey(key)
	if len(values) == 0 {
		return
	}

	k, err := sec.NewKey(key, values[0])
	if err != nil {
		return
	}
	for _, v := range values[1:] {
		// Shadows reject only duplicate values, which collapse to one entry.
		_ = k.AddShadow(v) //nolint:errcheck // see above
	}
}

// Remove deletes the key from the writable layer.
func (s *Ini) Remove(section, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.top.GetSection(section)
	if err != nil {
		return
	}
	sec.DeleteKey(key)
}

// Flush writes the writable layer to disk.
func (s *Ini) Flush() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), iniDirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := s.top.SaveTo(s.path); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
