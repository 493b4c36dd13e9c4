package formats

import "github.com/nerrad567/targetplatform/internal/platform"

// Settings are the user-controlled inputs to negotiation.
type Settings struct {
	TargetedShaderFormats []Name `json:"targeted_shader_formats"`
	CookDXT               bool   `json:"cook_dxt"`
	CookBC                bool   `json:"cook_bc"`
	CookETC2              bool   `json:"cook_etc2"`
}

// DefaultSettings returns the values used for flags missing from config.
func DefaultSettings() Settings {
	return Settings{
		CookDXT:  true,
		CookBC:   true,
		CookETC2: false,
	}
}

// SettingsSource supplies the current settings. It is read on every query
// so that edits made elsewhere show up on the next call.
type SettingsSource interface {
	Settings() Settings
}

// SettingsFunc adapts a function to SettingsSource.
type SettingsFunc func() Settings

// Settings calls f.
func (f SettingsFunc) Settings() Settings {
	return f()
}

// Resolver supplies the default texture formats before substitution.
type Resolver interface {
	// TextureFormats returns the default format of each layer of tex.
	TextureFormats(tex TextureAsset) []Name

	// AllTextureFormats returns every default format any texture could get.
	AllTextureFormats() []Name
}

// FilterTargetedShaderFormats keeps the requested formats that are
// possible, in request order, without duplicates. Unsupported requests are
// dropped silently.
func FilterTargetedShaderFormats(requested, possible []Name) []Name {
	allowed := make(map[Name]struct{}, len(possible))
	for _, p := range possible {
		allowed[p] = struct{}{}
	}

	var out []Name
	for _, r := range requested {
		if _, ok := allowed[r]; ok {
			out = appendUnique(out, r)
		}
	}
	return out
}

// substitute applies the cook flags to one texture format. With keep set,
// a disabled family falls back to BGRA8; otherwise ok is false and the
// caller drops the entry.
func substitute(n Name, s Settings, keep bool) (out Name, ok bool) {
	switch {
	case n.IsDXT():
		if s.CookDXT {
			return n, true
		}
		if s.CookETC2 {
			if n == DXT1 {
				return ETC2RGB, true
			}
			return ETC2RGBA, true
		}
	case n.IsBC():
		if s.CookBC {
			return n, true
		}
		if s.CookETC2 {
			return ETC2RGB, true
		}
	default:
		return n, true
	}

	if keep {
		return BGRA8, true
	}
	return "", false
}

// SubstituteTextureFormat resolves one texture layer's format. The result
// is always usable: a disabled family becomes ETC2 or BGRA8.
func SubstituteTextureFormat(n Name, s Settings) Name {
	out, _ := substitute(n, s, true)
	return out
}

// SubstituteAllTextureFormats rewrites the flat list of every format the
// target could use. Disabled families with no ETC2 fallback are removed.
// The result keeps first-seen order and has no duplicates.
func SubstituteAllTextureFormats(all []Name, s Settings) []Name {
	var out []Name
	for _, n := range all {
		if sub, ok := substitute(n, s, false); ok {
			out = appendUnique(out, sub)
		}
	}
	return out
}

// Negotiator answers format queries for one target variant.
//
// Settings are re-read on every call except for the encoded HDR decision,
// which is taken once from the targeted shader formats at construction.
type Negotiator struct {
	props              platform.Properties
	settings           SettingsSource
	resolver           Resolver
	requiresEncodedHDR bool
}

// NewNegotiator creates a negotiator. A nil resolver uses StandardResolver.
func NewNegotiator(props platform.Properties, settings SettingsSource, resolver Resolver) *Negotiator {
	if resolver == nil {
		resolver = StandardResolver{}
	}
	n := &Negotiator{
		props:    props,
		settings: settings,
		resolver: resolver,
	}
	n.requiresEncodedHDR = RequiresEncodedHDR(n.TargetedShaderFormats())
	return n
}

// PossibleShaderFormats lists every shader format the variant supports.
func (n *Negotiator) PossibleShaderFormats() []Name {
	return PossibleShaderFormats(n.props)
}

// TargetedShaderFormats lists the configured shader formats the variant supports.
func (n *Negotiator) TargetedShaderFormats() []Name {
	return FilterTargetedShaderFormats(n.settings.Settings().TargetedShaderFormats, n.PossibleShaderFormats())
}

// RequiresEncodedHDR reports the decision taken at construction.
func (n *Negotiator) RequiresEncodedHDR() bool {
	return n.requiresEncodedHDR
}

// ReflectionCaptureFormats lists the reflection capture encodings.
func (n *Negotiator) ReflectionCaptureFormats() []Name {
	return ReflectionCaptureFormats(n.requiresEncodedHDR)
}

// TextureFormatsFor returns the format of each layer of tex.
// A dedicated server cooks no textures and gets nil.
func (n *Negotiator) TextureFormatsFor(tex TextureAsset) []Name {
	if n.props.ServerOnly {
		return nil
	}

	s := n.settings.Settings()
	layers := n.resolver.TextureFormats(tex)
	out := make([]Name, len(layers))
	for i, f := range layers {
		out[i] = SubstituteTextureFormat(f, s)
	}
	return out
}

// AllTextureFormats lists every texture format the variant could produce.
func (n *Negotiator) AllTextureFormats() []Name {
	if n.props.ServerOnly {
		return nil
	}
	return SubstituteAllTextureFormats(n.resolver.AllTextureFormats(), n.settings.Settings())
}

// WaveFormatFor picks the audio format for one sound.
func (n *Negotiator) WaveFormatFor(snd SoundAsset) Name {
	return SelectWaveFormat(snd.SeekableStreaming, snd.Streaming)
}

// AllWaveFormats lists every audio format regardless of configuration.
func (n *Negotiator) AllWaveFormats() []Name {
	return AllWaveFormats()
}
