package device

import (
	"fmt"
	"strings"
)

// Validation constants.
const (
	maxNameLength = 255

	// forbiddenNameChars would corrupt an ini record if stored in a value.
	forbiddenNameChars = "\r\n"
)

// checkStorable reports why v would not read back unchanged from an ini
// record, or "" if it would.
//
// The ini writer quotes values with surrounding whitespace in "...", and
// the reader strips one matching pair of surrounding quotes and treats a
// leading """ as the start of a multi-line value.
func checkStorable(v string) string {
	switch {
	case strings.ContainsAny(v, forbiddenNameChars):
		return "contains a line break"
	case strings.HasPrefix(v, `"""`):
		return `starts with """`
	case len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0]:
		return "is wrapped in quotes"
	case strings.TrimSpace(v) != v && strings.Contains(v, `"`):
		return "has surrounding whitespace and a double quote"
	}
	return ""
}

// ValidateName checks that a device name can be stored as a config value.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: name has leading or trailing whitespace", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	if reason := checkStorable(name); reason != "" {
		return fmt.Errorf("%w: name %s", ErrInvalidName, reason)
	}
	return nil
}

// ValidateDisplayName checks an optional display name. Empty means the
// device name is used.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return nil
	}
	if err := ValidateName(displayName); err != nil {
		return fmt.Errorf("display name: %w", err)
	}
	return nil
}

// ValidateCredentials checks that credentials can be stored as config values.
func ValidateCredentials(username, password string) error {
	if reason := checkStorable(username); reason != "" {
		return fmt.Errorf("%w: username %s", ErrInvalidCredentials, reason)
	}
	if reason := checkStorable(password); reason != "" {
		return fmt.Errorf("%w: password %s", ErrInvalidCredentials, reason)
	}
	return nil
}
