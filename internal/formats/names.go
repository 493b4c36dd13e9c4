package formats

import "strings"

// Name identifies an asset encoding. Names compare by exact value; the
// family checks below only classify a name for substitution.
type Name string

// Texture formats.
const (
	DXT1     Name = "DXT1"
	DXT5     Name = "DXT5"
	BC4      Name = "BC4"
	BC5      Name = "BC5"
	BC6H     Name = "BC6H"
	BC7      Name = "BC7"
	G8       Name = "G8"
	RGBA16F  Name = "RGBA16F"
	BGRA8    Name = "BGRA8"
	ETC2RGB  Name = "ETC2_RGB"
	ETC2RGBA Name = "ETC2_RGBA"
)

// Shader formats.
const (
	VulkanSM5   Name = "SF_VULKAN_SM5"
	VulkanES31  Name = "SF_VULKAN_ES31"
	GLSL150ES31 Name = "GLSL_150_ES31"
)

// Reflection capture formats.
const (
	EncodedHDR Name = "EncodedHDR"
	FullHDR    Name = "FullHDR"
)

// Wave formats.
const (
	ADPCM Name = "ADPCM"
	OGG   Name = "OGG"
	OPUS  Name = "OPUS"
)

// IsDXT reports whether the name belongs to the DXT family.
func (n Name) IsDXT() bool {
	return strings.Contains(string(n), "DXT")
}

// IsBC reports whether the name belongs to the BC family.
func (n Name) IsBC() bool {
	return strings.HasPrefix(string(n), "BC")
}

// FromStrings converts config values to names.
func FromStrings(ss []string) []Name {
	out := make([]Name, len(ss))
	for i, s := range ss {
		out[i] = Name(s)
	}
	return out
}

// Strings converts names to config values.
func Strings(ns []Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

// appendUnique appends n unless it is already present.
func appendUnique(list []Name, n Name) []Name {
	for _, existing := range list {
		if existing == n {
			return list
		}
	}
	return append(list, n)
}
