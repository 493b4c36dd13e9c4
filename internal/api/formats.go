package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/targetplatform/internal/formats"
)

// formatsResponse lists format names for one target.
type formatsResponse struct {
	Target  string         `json:"target"`
	Formats []formats.Name `json:"formats"`
}

// handleGetSettings returns the negotiation settings as currently stored.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.Settings())
}

// handleSaveSettings replaces the negotiation settings. Omitted cook flags
// keep their defaults.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	settings := formats.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := t.SaveSettings(settings); err != nil {
		s.logger.Error("saving settings failed", "target", t.Name(), "error", err)
		writeInternalError(w, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, t.Settings())
}

// handleShaderFormats returns the targeted (default) or possible shader formats.
//
// Query parameters:
//   - scope: "targeted" (default) or "possible"
func (s *Server) handleShaderFormats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var names []formats.Name
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "targeted":
		names = t.TargetedShaderFormats()
	case "possible":
		names = t.PossibleShaderFormats()
	default:
		writeBadRequest(w, "scope must be targeted or possible")
		return
	}
	writeJSON(w, http.StatusOK, formatsResponse{Target: t.Name(), Formats: nonNil(names)})
}

// handleReflectionFormats returns the reflection capture formats.
func (s *Server) handleReflectionFormats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, formatsResponse{Target: t.Name(), Formats: nonNil(t.ReflectionCaptureFormats())})
}

// handleAllTextureFormats returns every texture format the target may cook.
func (s *Server) handleAllTextureFormats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, formatsResponse{Target: t.Name(), Formats: nonNil(t.AllTextureFormats())})
}

// handleResolveTextureFormats returns the per-layer formats for a texture.
func (s *Server) handleResolveTextureFormats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var tex formats.TextureAsset
	if err := json.NewDecoder(r.Body).Decode(&tex); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	for i, l := range tex.Layers {
		c, err := formats.ParseCompression(string(l.Compression))
		if err != nil {
			writeValidationError(w, err.Error())
			return
		}
		tex.Layers[i].Compression = c
	}
	writeJSON(w, http.StatusOK, formatsResponse{Target: t.Name(), Formats: nonNil(t.TextureFormatsFor(tex))})
}

// handleAllWaveFormats returns every audio format the target may cook.
func (s *Server) handleAllWaveFormats(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, formatsResponse{Target: t.Name(), Formats: nonNil(t.AllWaveFormats())})
}

// handleResolveWaveFormat returns the audio format for a sound.
func (s *Server) handleResolveWaveFormat(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var snd formats.SoundAsset
	if err := json.NewDecoder(r.Body).Decode(&snd); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"target": t.Name(),
		"format": t.WaveFormatFor(snd),
	})
}

// nonNil keeps empty lists as [] rather than null in responses.
func nonNil(names []formats.Name) []formats.Name {
	if names == nil {
		return []formats.Name{}
	}
	return names
}
