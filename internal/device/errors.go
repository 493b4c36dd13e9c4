package device

import "errors"

// Domain errors for the device package.
//
// Registry mutations report outcomes as booleans; these errors come from
// parsing and validation helpers and can be checked with errors.Is:
//
//	if errors.Is(err, device.ErrInvalidName) {
//	    // reject the request
//	}
var (
	// ErrDeviceNotFound is returned when a device name is not registered.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device whose name is taken.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidName is returned when a device name cannot be stored.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidID is returned when a device ID string cannot be parsed.
	ErrInvalidID = errors.New("device: invalid id")

	// ErrInvalidCredentials is returned when credentials cannot be stored.
	ErrInvalidCredentials = errors.New("device: invalid credentials")
)
