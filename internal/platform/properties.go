package platform

import (
	"fmt"
	"strings"
)

// Host OS and architecture names, matching runtime.GOOS / runtime.GOARCH.
const (
	OSLinux   = "linux"
	OSWindows = "windows"
	OSDarwin  = "darwin"

	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// Properties is the static description of one target variant.
//
// It is immutable for the lifetime of a target instance and selects
// behaviour (a dedicated server needs no render formats, an editor-data
// build can be a running platform, and so on).
type Properties struct {
	// Platform is the family name the variant belongs to (e.g. "Linux").
	Platform string `json:"platform" yaml:"platform"`

	// OS is the operating system the variant runs on (e.g. "linux").
	OS string `json:"os" yaml:"os"`

	ServerOnly        bool    `json:"server_only" yaml:"server_only"`
	ClientOnly        bool    `json:"client_only" yaml:"client_only"`
	HasEditorOnlyData bool    `json:"has_editor_only_data" yaml:"has_editor_only_data"`
	AArch64           bool    `json:"aarch64" yaml:"aarch64"`
	VariantPriority   float64 `json:"variant_priority" yaml:"variant_priority"`
}

// Name returns the variant's platform name, e.g. "LinuxNoEditor" or
// "LinuxAArch64Server". It is used in config record keys.
func (p Properties) Name() string {
	base := p.Platform
	if p.AArch64 {
		base += "AArch64"
	}

	switch {
	case p.HasEditorOnlyData:
		return base
	case p.ServerOnly:
		return base + "Server"
	case p.ClientOnly:
		return base + "Client"
	default:
		return base + "NoEditor"
	}
}

// Arch returns the CPU architecture the variant targets.
func (p Properties) Arch() string {
	if p.AArch64 {
		return ArchARM64
	}
	return ArchAMD64
}

// DisplayName returns the human-readable build type of the variant.
func (p Properties) DisplayName() string {
	switch {
	case p.ServerOnly:
		return "Dedicated Server"
	case p.HasEditorOnlyData:
		return "Client with Editor Data"
	case p.ClientOnly:
		return "Client only"
	default:
		return "Client"
	}
}

// VariantTitle is the label under which variants are grouped.
func (Properties) VariantTitle() string {
	return "Build Type"
}

// Validate reports property combinations that cannot describe a real variant.
func (p Properties) Validate() error {
	var errs []string

	if p.Platform == "" {
		errs = append(errs, "platform is required")
	}
	if p.OS == "" {
		errs = append(errs, "os is required")
	}
	if p.ServerOnly && p.ClientOnly {
		errs = append(errs, "a variant cannot be both server-only and client-only")
	}
	if p.HasEditorOnlyData && (p.ServerOnly || p.ClientOnly) {
		errs = append(errs, "editor data is only carried by the full (client and server) variant")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProperties, strings.Join(errs, "; "))
	}
	return nil
}

// Variants returns the standard variant table for a platform family.
//
// Order matches the order variants are offered to a user: the editor-data
// build first, then the x86-64 game/server/client builds, then AArch64.
func Variants(platformName, osName string) []Properties {
	return []Properties{
		{Platform: platformName, OS: osName, HasEditorOnlyData: true, VariantPriority: 0.2},
		{Platform: platformName, OS: osName, VariantPriority: 1.0},
		{Platform: platformName, OS: osName, ServerOnly: true, VariantPriority: 0.0},
		{Platform: platformName, OS: osName, ClientOnly: true, VariantPriority: 0.0},
		{Platform: platformName, OS: osName, AArch64: true, VariantPriority: 0.5},
		{Platform: platformName, OS: osName, AArch64: true, ServerOnly: true, VariantPriority: 0.0},
		{Platform: platformName, OS: osName, AArch64: true, ClientOnly: true, VariantPriority: 0.0},
	}
}

// Lookup finds the variant with the given name in a variant table.
func Lookup(variants []Properties, name string) (Properties, bool) {
	for _, v := range variants {
		if strings.EqualFold(v.Name(), name) {
			return v, true
		}
	}
	return Properties{}, false
}
