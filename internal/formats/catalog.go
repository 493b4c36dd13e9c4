package formats

import "github.com/nerrad567/targetplatform/internal/platform"

// PossibleShaderFormats lists every shader format the variant could
// compile. A dedicated server needs none.
func PossibleShaderFormats(props platform.Properties) []Name {
	if props.ServerOnly {
		return nil
	}
	return []Name{VulkanSM5, VulkanES31}
}

// RequiresEncodedHDR reports whether targeting these shader formats means
// reflection captures must also be cooked in the encoded HDR format.
func RequiresEncodedHDR(targeted []Name) bool {
	for _, n := range targeted {
		if n == VulkanES31 || n == GLSL150ES31 {
			return true
		}
	}
	return false
}

// ReflectionCaptureFormats lists the reflection capture encodings, encoded
// HDR first when required. FullHDR is always offered.
func ReflectionCaptureFormats(requiresEncodedHDR bool) []Name {
	if requiresEncodedHDR {
		return []Name{EncodedHDR, FullHDR}
	}
	return []Name{FullHDR}
}

// AllWaveFormats lists every audio format any sound could be cooked to.
func AllWaveFormats() []Name {
	return []Name{ADPCM, OGG, OPUS}
}

// SelectWaveFormat picks the audio format for one sound. Seeking needs
// ADPCM; other streamed audio uses OPUS; fully loaded audio uses OGG.
func SelectWaveFormat(seekableStreaming, streaming bool) Name {
	switch {
	case seekableStreaming:
		return ADPCM
	case streaming:
		return OPUS
	default:
		return OGG
	}
}
