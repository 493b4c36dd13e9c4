package configstore

import (
	"errors"
	"strconv"
	"strings"
)

// Store is a (section, key) -> value mapping with typed accessors.
//
// Reads and writes operate on an in-memory view that is loaded when the
// store is opened. Flush writes pending changes to the backing medium.
// Getters report whether the key exists; a missing key is not an error.
//
// Implementations must be safe for concurrent use and must not call back
// into their callers.
type Store interface {
	GetString(section, key string) (string, bool)
	GetBool(section, key string) (bool, bool)
	GetArray(section, key string) ([]string, bool)

	SetString(section, key, value string)
	SetBool(section, key string, value bool)
	SetArray(section, key string, values []string)
	Remove(section, key string)

	Flush() error
}

// ErrUnknownBackend is returned when the configured backend name is not recognised.
var ErrUnknownBackend = errors.New("configstore: unknown backend")

// Backend names accepted in the service configuration.
const (
	BackendIni    = "ini"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// formatBool renders booleans the way the engine's ini files spell them.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// parseBool accepts the spellings found in hand-edited ini files.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n != 0, true
	}
	return false, false
}
