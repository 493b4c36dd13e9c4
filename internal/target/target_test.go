package target

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/device"
	"github.com/nerrad567/targetplatform/internal/formats"
	"github.com/nerrad567/targetplatform/internal/hostinfo"
	"github.com/nerrad567/targetplatform/internal/platform"
	"github.com/nerrad567/targetplatform/internal/toolchain"
)

var linuxHost = hostinfo.Info{Hostname: "workstation", OS: platform.OSLinux, Arch: platform.ArchAMD64}

func variant(t *testing.T, name string) platform.Properties {
	t.Helper()
	p, ok := platform.Lookup(platform.Variants("Linux", platform.OSLinux), name)
	if !ok {
		t.Fatalf("variant %s not in table", name)
	}
	return p
}

func newTarget(t *testing.T, name string, store configstore.Store, host hostinfo.Info) *Target {
	t.Helper()
	tgt, err := New(Options{
		Properties:  variant(t, name),
		Store:       store,
		Host:        host,
		EditorBuild: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tgt
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{Properties: platform.Properties{}}); err == nil {
		t.Error("New() with empty properties should fail")
	}
	if _, err := New(Options{Properties: variant(t, "LinuxNoEditor")}); err == nil {
		t.Error("New() without a store should fail")
	}
}

func TestTarget_LocalDevice(t *testing.T) {
	tests := []struct {
		name      string
		variant   string
		host      hostinfo.Info
		wantLocal bool
	}{
		{"linux host, x86 variant", "LinuxNoEditor", linuxHost, true},
		{"linux host, aarch64 variant", "LinuxAArch64NoEditor", linuxHost, false},
		{"windows host", "LinuxNoEditor", hostinfo.Info{Hostname: "pc", OS: platform.OSWindows, Arch: platform.ArchAMD64}, false},
		{"arm host, aarch64 variant", "LinuxAArch64Server", hostinfo.Info{Hostname: "pi", OS: platform.OSLinux, Arch: platform.ArchARM64}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := newTarget(t, tt.variant, configstore.NewMemory(), tt.host)
			d, ok := tgt.GetDefaultDevice()
			if ok != tt.wantLocal {
				t.Fatalf("GetDefaultDevice() ok = %v, want %v", ok, tt.wantLocal)
			}
			if ok && (d.ID.Name != tt.host.Hostname || d.ID.Platform != tgt.Name()) {
				t.Errorf("local device id = %v", d.ID)
			}
		})
	}
}

func TestTarget_HostNamedDeviceNotPersistedOnTargetOS(t *testing.T) {
	store := configstore.NewMemory()
	// The AArch64 variant has no local device on an x86 host, so adding the
	// host's own name succeeds but must not be written.
	tgt := newTarget(t, "LinuxAArch64NoEditor", store, linuxHost)

	if !tgt.AddDevice("workstation", "", "", "", false) {
		t.Fatal("AddDevice() = false")
	}
	if len(store.Keys(DefaultSection)) != 0 {
		t.Errorf("store keys = %v, want none", store.Keys(DefaultSection))
	}
}

func TestTarget_IsRunningPlatform(t *testing.T) {
	store := configstore.NewMemory()

	if !newTarget(t, "Linux", store, linuxHost).IsRunningPlatform() {
		t.Error("editor-data variant in a Linux editor should be the running platform")
	}
	if newTarget(t, "LinuxNoEditor", store, linuxHost).IsRunningPlatform() {
		t.Error("a variant without editor data is never the running platform")
	}

	game, err := New(Options{Properties: variant(t, "Linux"), Store: store, Host: linuxHost})
	if err != nil {
		t.Fatal(err)
	}
	if game.IsRunningPlatform() {
		t.Error("a non-editor process is never the running platform")
	}
}

func TestTarget_SettingsDefaultsAndSave(t *testing.T) {
	store := configstore.NewMemory()
	tgt := newTarget(t, "LinuxNoEditor", store, linuxHost)

	if got := tgt.Settings(); got.CookETC2 || !got.CookDXT || !got.CookBC {
		t.Errorf("default Settings() = %+v", got)
	}

	want := formats.Settings{
		TargetedShaderFormats: []formats.Name{formats.VulkanES31, "SF_UNKNOWN"},
		CookDXT:               false,
		CookBC:                true,
		CookETC2:              true,
	}
	if err := tgt.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if got := tgt.Settings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
	if v, _ := store.GetString(DefaultSection, KeyCookDXT); v != "False" {
		t.Errorf("%s = %q, want False", KeyCookDXT, v)
	}

	if got := tgt.TargetedShaderFormats(); !reflect.DeepEqual(got, []formats.Name{formats.VulkanES31}) {
		t.Errorf("TargetedShaderFormats() = %v", got)
	}

	tex := formats.TextureAsset{Layers: []formats.TextureLayer{{}}}
	if got := tgt.TextureFormatsFor(tex); !reflect.DeepEqual(got, []formats.Name{formats.ETC2RGB}) {
		t.Errorf("TextureFormatsFor() = %v, want [ETC2_RGB]", got)
	}
}

func TestTarget_EncodedHDRFromConfigAtCreation(t *testing.T) {
	store := configstore.NewMemory()
	store.SetArray(DefaultSection, KeyTargetedRHIs, []string{"SF_VULKAN_SM5", "SF_VULKAN_ES31"})

	tgt := newTarget(t, "LinuxNoEditor", store, linuxHost)
	want := []formats.Name{formats.EncodedHDR, formats.FullHDR}
	if got := tgt.ReflectionCaptureFormats(); !reflect.DeepEqual(got, want) {
		t.Errorf("ReflectionCaptureFormats() = %v, want %v", got, want)
	}
}

func TestTarget_ServerVariant(t *testing.T) {
	tgt := newTarget(t, "LinuxServer", configstore.NewMemory(), linuxHost)

	if len(tgt.PossibleShaderFormats()) != 0 || len(tgt.AllTextureFormats()) != 0 {
		t.Error("dedicated server should have no shader or texture formats")
	}
	if tgt.SupportsFeature(platform.FeatureTextureStreaming) {
		t.Error("dedicated server should not support texture streaming")
	}
	if !tgt.SupportsFeature(platform.FeaturePackaging) {
		t.Error("packaging is always supported")
	}
	if got := tgt.WaveFormatFor(formats.SoundAsset{Streaming: true}); got != formats.OPUS {
		t.Errorf("WaveFormatFor(streaming) = %s, want OPUS", got)
	}
}

func TestTarget_DevicesPersistAcrossInstances(t *testing.T) {
	store := configstore.NewMemory()

	first := newTarget(t, "LinuxNoEditor", store, linuxHost)
	var discovered []device.Device
	first.OnDeviceDiscovered().Subscribe(func(d device.Device) { discovered = append(discovered, d) })
	first.AddDevice("render-01", "Render 01", "builder", "secret", false)

	if len(discovered) != 1 {
		t.Fatalf("discovered %d devices, want 1", len(discovered))
	}

	second := newTarget(t, "LinuxNoEditor", store, linuxHost)
	d, ok := second.GetDevice(device.ID{Platform: "LinuxNoEditor", Name: "render-01"})
	if !ok || d.Username != "builder" {
		t.Errorf("GetDevice() = (%+v, %v)", d, ok)
	}

	other := newTarget(t, "LinuxClient", store, linuxHost)
	if _, ok := other.GetDevice(device.ID{Platform: "LinuxClient", Name: "render-01"}); ok {
		t.Error("device leaked into another variant")
	}
}

func TestTarget_SdkChecks(t *testing.T) {
	probe := &toolchain.Probe{
		HostOS: platform.OSWindows,
		Getenv: func(string) string { return "" },
		Stat:   func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
	}
	tgt, err := New(Options{
		Properties: variant(t, "LinuxNoEditor"),
		Store:      configstore.NewMemory(),
		Host:       hostinfo.Info{Hostname: "pc", OS: platform.OSWindows, Arch: platform.ArchAMD64},
		Probe:      probe,
	})
	if err != nil {
		t.Fatal(err)
	}

	if ok, doc := tgt.IsSdkInstalled(); ok || doc != toolchain.DocumentationPath {
		t.Errorf("IsSdkInstalled() = (%v, %q)", ok, doc)
	}
	status, _ := tgt.CheckRequirements(toolchain.Requirements{ProjectHasCode: true})
	if !status.Has(platform.SDKNotFound | platform.CodeUnsupported) {
		t.Errorf("CheckRequirements() = %v", status)
	}
}

func TestStoreSettings_SaveFlushError(t *testing.T) {
	s := NewStoreSettings(failingStore{configstore.NewMemory()}, DefaultSection)
	if err := s.Save(formats.DefaultSettings()); err == nil {
		t.Error("Save() should report the flush error")
	}
}

type failingStore struct {
	*configstore.Memory
}

func (failingStore) Flush() error { return errors.New("read-only filesystem") }
