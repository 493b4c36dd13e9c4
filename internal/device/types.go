package device

import (
	"fmt"
	"strings"
)

// idSeparator joins the platform and device name in an ID's text form.
const idSeparator = "@"

// ID identifies a device within the scope of one target variant.
// Two variants may both know a device called "render-01"; their IDs differ.
type ID struct {
	Platform string
	Name     string
}

// String renders the ID as "<platform>@<name>".
func (id ID) String() string {
	return id.Platform + idSeparator + id.Name
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID parses the "<platform>@<name>" form produced by ID.String.
// The device name may itself contain "@"; only the first one separates.
func ParseID(s string) (ID, error) {
	platform, name, ok := strings.Cut(s, idSeparator)
	if !ok || platform == "" || name == "" {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID{Platform: platform, Name: name}, nil
}

// Device is a deployment endpoint known to a target variant.
type Device struct {
	ID          ID     `json:"id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`

	// Password is never serialised. It only travels to the config store.
	Password string `json:"-"`

	// IsLocal marks the device that represents the running host.
	IsLocal bool `json:"is_local"`
}

// Name returns the device name part of the ID.
func (d Device) Name() string {
	return d.ID.Name
}

// HasCredentials reports whether a username or password has been set.
func (d Device) HasCredentials() bool {
	return d.Username != "" || d.Password != ""
}
