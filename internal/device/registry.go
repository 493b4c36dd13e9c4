package device

import (
	"sync"

	"github.com/nerrad567/targetplatform/internal/events"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store is the part of the config store the registry persists through.
// configstore.Store satisfies it.
type Store interface {
	GetString(section, key string) (string, bool)
	SetString(section, key, value string)
	Remove(section, key string)
	Flush() error
}

// Options configures a Registry.
type Options struct {
	// Platform is the target variant name, e.g. "LinuxNoEditor".
	// It scopes device IDs and config keys.
	Platform string

	// Section is the config section device records live in.
	Section string

	// KeyPrefix starts every device record key.
	KeyPrefix string

	// Store persists device records. Required.
	Store Store

	// LocalDeviceName names the device representing the running host.
	// Empty when the host cannot run this target.
	LocalDeviceName string

	// HostName is the running host's computer name. Devices with this
	// name are never written to the store.
	HostName string

	// Logger receives persistence warnings. Defaults to a no-op logger.
	Logger Logger
}

// Registry is the set of devices known to one target variant.
//
// Device names are unique. At most one device is local; it is derived
// from the host and is never persisted. Every successful AddDevice writes
// the full device list back to the store.
//
// All public methods are thread-safe. Events are published after the
// registry lock is released, on the goroutine that caused them, so a
// subscriber may call back into the registry.
type Registry struct {
	platform string
	section  string
	prefix   string
	hostName string
	store    Store

	// mu guards everything below. changingConfig is the reentrancy guard
	// shared by load and save: while one runs, the other is a no-op.
	mu             sync.Mutex
	changingConfig bool
	local          *Device
	devices        []*Device
	byName         map[string]*Device
	persisted      int

	discovered *events.Hub[Device]
	lost       *events.Hub[Device]
	logger     Logger
}

// NewRegistry creates a registry and loads the persisted devices.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	r := &Registry{
		platform:   opts.Platform,
		section:    opts.Section,
		prefix:     opts.KeyPrefix,
		hostName:   opts.HostName,
		store:      opts.Store,
		byName:     make(map[string]*Device),
		discovered: events.NewHub[Device]("device.discovered"),
		lost:       events.NewHub[Device]("device.lost"),
		logger:     logger,
	}
	r.discovered.SetLogger(logger)
	r.lost.SetLogger(logger)

	if opts.LocalDeviceName != "" {
		r.local = &Device{
			ID:          ID{Platform: opts.Platform, Name: opts.LocalDeviceName},
			DisplayName: opts.LocalDeviceName,
			IsLocal:     true,
		}
	}

	r.LoadFromConfig()
	return r
}

// SetLogger sets the logger for the registry and its event hubs.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()

	r.discovered.SetLogger(logger)
	r.lost.SetLogger(logger)
}

// Platform returns the target variant name the registry belongs to.
func (r *Registry) Platform() string {
	return r.platform
}

// OnDeviceDiscovered is the hub that announces added devices.
func (r *Registry) OnDeviceDiscovered() *events.Hub[Device] {
	return r.discovered
}

// OnDeviceLost is the hub for removed devices. Nothing in the registry
// removes devices yet, so it never fires.
func (r *Registry) OnDeviceLost() *events.Hub[Device] {
	return r.lost
}

// AddDevice registers a device and persists the device list.
//
// It returns false, with no side effects, if the name is already taken
// (including by the local device) or cannot be stored. displayName
// defaults to name. isDefault is accepted for interface compatibility;
// the default device is always the local one.
func (r *Registry) AddDevice(name, displayName, username, password string, isDefault bool) bool {
	_ = isDefault

	r.mu.Lock()
	d, ok := r.addLocked(name, displayName, username, password)
	if ok {
		r.saveLocked()
	}
	r.mu.Unlock()

	if ok {
		r.discovered.Publish(d)
	}
	return ok
}

// SetCredentials replaces a registered device's credentials and persists
// the device list.
func (r *Registry) SetCredentials(name, username, password string) error {
	if err := ValidateCredentials(username, password); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byName[name]
	if !ok {
		return ErrDeviceNotFound
	}
	d.Username = username
	d.Password = password
	r.saveLocked()
	return nil
}

// GetDevice looks a device up by ID, local device first.
func (r *Registry) GetDevice(id ID) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.local != nil && r.local.ID == id {
		return *r.local, true
	}
	for _, d := range r.devices {
		if d.ID == id {
			return *d, true
		}
	}
	return Device{}, false
}

// GetAllDevices returns the local device, if any, followed by the
// registered devices in the order they were added.
func (r *Registry) GetAllDevices() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Device, 0, len(r.devices)+1)
	if r.local != nil {
		out = append(out, *r.local)
	}
	for _, d := range r.devices {
		out = append(out, *d)
	}
	return out
}

// GetDefaultDevice returns the local device if there is one.
func (r *Registry) GetDefaultDevice() (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.local == nil {
		return Device{}, false
	}
	return *r.local, true
}

// Count returns the number of registered, non-local devices.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// addLocked inserts a device. The caller holds r.mu.
func (r *Registry) addLocked(name, displayName, username, password string) (Device, bool) {
	if err := ValidateName(name); err != nil {
		r.logger.Debug("device rejected", "platform", r.platform, "name", name, "error", err)
		return Device{}, false
	}
	if _, exists := r.byName[name]; exists {
		return Device{}, false
	}
	if r.local != nil && r.local.ID.Name == name {
		return Device{}, false
	}
	if err := ValidateCredentials(username, password); err != nil {
		r.logger.Debug("device rejected", "platform", r.platform, "name", name, "error", err)
		return Device{}, false
	}
	if err := ValidateDisplayName(displayName); err != nil {
		r.logger.Debug("device rejected", "platform", r.platform, "name", name, "error", err)
		return Device{}, false
	}

	if displayName == "" {
		displayName = name
	}
	d := &Device{
		ID:          ID{Platform: r.platform, Name: name},
		DisplayName: displayName,
		Username:    username,
		Password:    password,
	}
	r.devices = append(r.devices, d)
	r.byName[name] = d

	r.logger.Info("device added", "platform", r.platform, "device", name)
	return *d, true
}
