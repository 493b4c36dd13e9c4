package platform

import "errors"

var (
	// ErrInvalidProperties is returned when a variant description is inconsistent.
	ErrInvalidProperties = errors.New("platform: invalid properties")

	// ErrUnknownFeature is returned when parsing an unrecognised feature name.
	ErrUnknownFeature = errors.New("platform: unknown feature")
)

// Feature is an optional capability a target variant may support.
type Feature string

// Known features.
const (
	FeatureAudioStreaming        Feature = "audio_streaming"
	FeatureDistanceFieldShadows  Feature = "distance_field_shadows"
	FeatureGrayscaleSRGB         Feature = "grayscale_srgb"
	FeatureHighQualityLightmaps  Feature = "high_quality_lightmaps"
	FeatureLowQualityLightmaps   Feature = "low_quality_lightmaps"
	FeatureMultipleGameInstances Feature = "multiple_game_instances"
	FeaturePackaging             Feature = "packaging"
	FeatureSdkConnectDisconnect  Feature = "sdk_connect_disconnect"
	FeatureTextureStreaming      Feature = "texture_streaming"
	FeatureUserCredentials       Feature = "user_credentials"
	FeatureDeviceOutputLog       Feature = "device_output_log"
	FeatureMobileRendering       Feature = "mobile_rendering"
	FeatureDeferredRendering     Feature = "deferred_rendering"
)

// AllFeatures returns every known feature.
func AllFeatures() []Feature {
	return []Feature{
		FeatureAudioStreaming,
		FeatureDistanceFieldShadows,
		FeatureGrayscaleSRGB,
		FeatureHighQualityLightmaps,
		FeatureLowQualityLightmaps,
		FeatureMultipleGameInstances,
		FeaturePackaging,
		FeatureSdkConnectDisconnect,
		FeatureTextureStreaming,
		FeatureUserCredentials,
		FeatureDeviceOutputLog,
		FeatureMobileRendering,
		FeatureDeferredRendering,
	}
}

// ParseFeature converts a feature name into a Feature.
func ParseFeature(s string) (Feature, error) {
	for _, f := range AllFeatures() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFeature
}

// SupportsFeature reports whether the variant supports a feature.
//
// Deployment to a remote device always needs credentials and packaging.
// Everything else comes from the base table: render features need a
// client, and multiple instances are a desktop-only convenience.
func (p Properties) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureUserCredentials, FeaturePackaging:
		return true
	case FeatureAudioStreaming, FeatureTextureStreaming, FeatureGrayscaleSRGB,
		FeatureHighQualityLightmaps, FeatureLowQualityLightmaps,
		FeatureDistanceFieldShadows, FeatureDeferredRendering:
		return !p.ServerOnly
	case FeatureMultipleGameInstances:
		return !p.AArch64
	case FeatureMobileRendering, FeatureSdkConnectDisconnect, FeatureDeviceOutputLog:
		return false
	default:
		return false
	}
}
