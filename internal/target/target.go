package target

import (
	"fmt"

	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/device"
	"github.com/nerrad567/targetplatform/internal/events"
	"github.com/nerrad567/targetplatform/internal/formats"
	"github.com/nerrad567/targetplatform/internal/hostinfo"
	"github.com/nerrad567/targetplatform/internal/platform"
	"github.com/nerrad567/targetplatform/internal/toolchain"
)

// Logger defines the logging interface used by targets.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Target.
type Options struct {
	Properties platform.Properties

	// Store holds settings and device records. Required.
	Store configstore.Store

	// Section and KeyPrefix default to DefaultSection and DefaultKeyPrefix.
	Section   string
	KeyPrefix string

	// Host is the running machine.
	Host hostinfo.Info

	// EditorBuild is set when the running process is an editor, the only
	// kind of process that can be a running platform.
	EditorBuild bool

	// Probe checks for the toolchain. Defaults to toolchain.NewProbe().
	Probe *toolchain.Probe

	// Resolver supplies default texture formats. Defaults to formats.StandardResolver.
	Resolver formats.Resolver

	Logger Logger
}

// Target is one target variant: its static properties, its devices and
// its format negotiation.
type Target struct {
	props      platform.Properties
	host       hostinfo.Info
	editor     bool
	probe      toolchain.Probe
	settings   *StoreSettings
	registry   *device.Registry
	negotiator *formats.Negotiator
	logger     Logger
}

// New creates a target and loads its devices from the store.
func New(opts Options) (*Target, error) {
	if err := opts.Properties.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("target %s: config store is required", opts.Properties.Name())
	}
	if opts.Section == "" {
		opts.Section = DefaultSection
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	probe := toolchain.NewProbe()
	if opts.Probe != nil {
		probe = *opts.Probe
	}

	props := opts.Properties
	t := &Target{
		props:    props,
		host:     opts.Host,
		editor:   opts.EditorBuild,
		probe:    probe,
		settings: NewStoreSettings(opts.Store, opts.Section),
		logger:   opts.Logger,
	}

	regOpts := device.Options{
		Platform:  props.Name(),
		Section:   opts.Section,
		KeyPrefix: opts.KeyPrefix,
		Store:     opts.Store,
		Logger:    opts.Logger,
	}
	// Only a host running the target OS can name a device after itself.
	if opts.Host.OS == props.OS {
		regOpts.HostName = opts.Host.Hostname
	}
	if opts.Host.Hostname != "" && opts.Host.CanRun(props.OS, props.Arch()) {
		regOpts.LocalDeviceName = opts.Host.Hostname
	}
	t.registry = device.NewRegistry(regOpts)

	t.negotiator = formats.NewNegotiator(props, t.settings, opts.Resolver)

	opts.Logger.Debug("target created",
		"target", props.Name(),
		"devices", t.registry.Count(),
		"encoded_hdr", t.negotiator.RequiresEncodedHDR(),
	)
	return t, nil
}

// Properties returns the variant's static properties.
func (t *Target) Properties() platform.Properties {
	return t.props
}

// Name returns the variant's platform name.
func (t *Target) Name() string {
	return t.props.Name()
}

// Registry returns the variant's device registry.
func (t *Target) Registry() *device.Registry {
	return t.registry
}

// AddDevice registers a device. See device.Registry.AddDevice.
func (t *Target) AddDevice(name, displayName, username, password string, isDefault bool) bool {
	return t.registry.AddDevice(name, displayName, username, password, isDefault)
}

// GetDevice looks a device up by ID.
func (t *Target) GetDevice(id device.ID) (device.Device, bool) {
	return t.registry.GetDevice(id)
}

// GetAllDevices lists the local device first, then the registered ones.
func (t *Target) GetAllDevices() []device.Device {
	return t.registry.GetAllDevices()
}

// GetDefaultDevice returns the local device, if any.
func (t *Target) GetDefaultDevice() (device.Device, bool) {
	return t.registry.GetDefaultDevice()
}

// OnDeviceDiscovered is the hub announcing added devices.
func (t *Target) OnDeviceDiscovered() *events.Hub[device.Device] {
	return t.registry.OnDeviceDiscovered()
}

// OnDeviceLost is the hub for removed devices.
func (t *Target) OnDeviceLost() *events.Hub[device.Device] {
	return t.registry.OnDeviceLost()
}

// IsRunningPlatform reports whether this process is an editor running on
// the variant that carries editor data.
func (t *Target) IsRunningPlatform() bool {
	return t.editor && t.host.OS == t.props.OS && t.props.HasEditorOnlyData
}

// SupportsFeature reports whether the variant supports a feature.
func (t *Target) SupportsFeature(f platform.Feature) bool {
	return t.props.SupportsFeature(f)
}

// IsSdkInstalled reports whether the toolchain is available from this
// host, and a documentation path if it is not.
func (t *Target) IsSdkInstalled() (bool, string) {
	return t.probe.IsSdkInstalled(t.props.OS)
}

// CheckRequirements aggregates the readiness flags for building a project.
func (t *Target) CheckRequirements(req toolchain.Requirements) (platform.ReadyStatus, string) {
	return t.probe.CheckRequirements(t.props.OS, req)
}

// Settings returns the current negotiation settings.
func (t *Target) Settings() formats.Settings {
	return t.settings.Settings()
}

// SaveSettings writes negotiation settings back to the store. The encoded
// HDR decision keeps the value taken when the target was created.
func (t *Target) SaveSettings(s formats.Settings) error {
	return t.settings.Save(s)
}

// TargetedShaderFormats lists the configured shader formats the variant supports.
func (t *Target) TargetedShaderFormats() []formats.Name {
	return t.negotiator.TargetedShaderFormats()
}

// PossibleShaderFormats lists every shader format the variant supports.
func (t *Target) PossibleShaderFormats() []formats.Name {
	return t.negotiator.PossibleShaderFormats()
}

// ReflectionCaptureFormats lists the reflection capture encodings.
func (t *Target) ReflectionCaptureFormats() []formats.Name {
	return t.negotiator.ReflectionCaptureFormats()
}

// TextureFormatsFor returns the format of each layer of a texture.
func (t *Target) TextureFormatsFor(tex formats.TextureAsset) []formats.Name {
	return t.negotiator.TextureFormatsFor(tex)
}

// AllTextureFormats lists every texture format the variant could produce.
func (t *Target) AllTextureFormats() []formats.Name {
	return t.negotiator.AllTextureFormats()
}

// WaveFormatFor picks the audio format for a sound.
func (t *Target) WaveFormatFor(snd formats.SoundAsset) formats.Name {
	return t.negotiator.WaveFormatFor(snd)
}

// AllWaveFormats lists every audio format.
func (t *Target) AllWaveFormats() []formats.Name {
	return t.negotiator.AllWaveFormats()
}
