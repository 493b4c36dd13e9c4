package formats

import (
	"fmt"
	"strings"
)

// Compression is a texture's compression setting.
type Compression string

// Texture compression settings understood by StandardResolver.
const (
	CompressionDefault            Compression = "default"
	CompressionNormalMap          Compression = "normalmap"
	CompressionHDRCompressed      Compression = "hdr_compressed"
	CompressionBC7                Compression = "bc7"
	CompressionAlpha              Compression = "alpha"
	CompressionGrayscale          Compression = "grayscale"
	CompressionHDR                Compression = "hdr"
	CompressionVectorDisplacement Compression = "vector_displacement"
	CompressionUserInterface      Compression = "user_interface"
)

// AllCompressions returns every known compression setting.
func AllCompressions() []Compression {
	return []Compression{
		CompressionDefault,
		CompressionNormalMap,
		CompressionHDRCompressed,
		CompressionBC7,
		CompressionAlpha,
		CompressionGrayscale,
		CompressionHDR,
		CompressionVectorDisplacement,
		CompressionUserInterface,
	}
}

// ParseCompression parses a compression setting, case-insensitively.
// An empty string means CompressionDefault.
func ParseCompression(s string) (Compression, error) {
	if s == "" {
		return CompressionDefault, nil
	}
	c := Compression(strings.ToLower(s))
	for _, known := range AllCompressions() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown texture compression %q", s)
}

// TextureLayer is one layer of a texture.
type TextureLayer struct {
	Compression Compression `json:"compression"`
	HasAlpha    bool        `json:"has_alpha"`
}

// TextureAsset is the part of a texture format selection looks at.
type TextureAsset struct {
	Name   string         `json:"name"`
	Layers []TextureLayer `json:"layers"`
}

// SoundAsset is the part of a sound wave format selection looks at.
type SoundAsset struct {
	Name              string `json:"name"`
	SeekableStreaming bool   `json:"seekable_streaming"`
	Streaming         bool   `json:"streaming"`
}

// StandardResolver maps compression settings to the desktop default formats.
type StandardResolver struct{}

// TextureFormats returns one default format per layer.
func (StandardResolver) TextureFormats(tex TextureAsset) []Name {
	out := make([]Name, len(tex.Layers))
	for i, l := range tex.Layers {
		out[i] = defaultFormat(l)
	}
	return out
}

// AllTextureFormats returns every format TextureFormats can produce.
func (StandardResolver) AllTextureFormats() []Name {
	return []Name{DXT1, DXT5, BC4, BC5, BC6H, BC7, G8, RGBA16F, BGRA8}
}

func defaultFormat(l TextureLayer) Name {
	switch l.Compression {
	case CompressionNormalMap:
		return BC5
	case CompressionHDRCompressed:
		return BC6H
	case CompressionBC7:
		return BC7
	case CompressionAlpha:
		return BC4
	case CompressionGrayscale:
		return G8
	case CompressionHDR:
		return RGBA16F
	case CompressionVectorDisplacement, CompressionUserInterface:
		return BGRA8
	default:
		if l.HasAlpha {
			return DXT5
		}
		return DXT1
	}
}
