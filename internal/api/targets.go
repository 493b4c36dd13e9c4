package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/targetplatform/internal/platform"
	"github.com/nerrad567/targetplatform/internal/target"
	"github.com/nerrad567/targetplatform/internal/toolchain"
)

// variantResponse describes one entry of the variant table.
type variantResponse struct {
	Name         string              `json:"name"`
	DisplayName  string              `json:"display_name"`
	VariantTitle string              `json:"variant_title"`
	Properties   platform.Properties `json:"properties"`
	Created      bool                `json:"created"`
}

// targetResponse describes a created target.
type targetResponse struct {
	variantResponse
	RunningPlatform bool            `json:"running_platform"`
	DeviceCount     int             `json:"device_count"`
	Features        map[string]bool `json:"features"`
}

// lookupTarget resolves the {variant} URL parameter, creating the target
// on first use. It writes the error response and returns false on failure.
func (s *Server) lookupTarget(w http.ResponseWriter, r *http.Request) (*target.Target, bool) {
	t, err := s.module.Target(chi.URLParam(r, "variant"))
	if err != nil {
		writeTargetError(w, err)
		return nil, false
	}
	return t, true
}

func describeVariant(p platform.Properties, created bool) variantResponse {
	return variantResponse{
		Name:         p.Name(),
		DisplayName:  p.DisplayName(),
		VariantTitle: p.VariantTitle(),
		Properties:   p,
		Created:      created,
	}
}

// handleListTargets lists the variant table without creating targets.
func (s *Server) handleListTargets(w http.ResponseWriter, _ *http.Request) {
	created := make(map[string]bool)
	for _, t := range s.module.Targets() {
		created[t.Name()] = true
	}

	variants := s.module.Variants()
	out := make([]variantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, describeVariant(v, created[v.Name()]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"targets": out, "count": len(out)})
}

// handleGetTarget describes one target, creating it if needed.
func (s *Server) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	features := make(map[string]bool)
	for _, f := range platform.AllFeatures() {
		features[string(f)] = t.SupportsFeature(f)
	}

	writeJSON(w, http.StatusOK, targetResponse{
		variantResponse: describeVariant(t.Properties(), true),
		RunningPlatform: t.IsRunningPlatform(),
		DeviceCount:     t.Registry().Count(),
		Features:        features,
	})
}

// handleGetFeature reports whether the target supports one feature.
func (s *Server) handleGetFeature(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	f, err := platform.ParseFeature(chi.URLParam(r, "feature"))
	if err != nil {
		writeBadRequest(w, "unknown feature: "+chi.URLParam(r, "feature"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"target":    t.Name(),
		"feature":   f,
		"supported": t.SupportsFeature(f),
	})
}

// handleGetSdk reports whether the toolchain for the target is installed.
func (s *Server) handleGetSdk(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	installed, docPath := t.IsSdkInstalled()
	writeJSON(w, http.StatusOK, map[string]any{
		"target":             t.Name(),
		"installed":          installed,
		"documentation_path": docPath,
	})
}

// requirementsRequest is the body of POST .../requirements.
type requirementsRequest struct {
	ProjectHasCode     bool `json:"project_has_code"`
	RequiresTempTarget bool `json:"requires_temp_target"`
	BundledLibraries   bool `json:"bundled_libraries"`
}

// handleCheckRequirements checks whether a project can be built for the target.
func (s *Server) handleCheckRequirements(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var req requirementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	status, docPath := t.CheckRequirements(toolchain.Requirements{
		ProjectHasCode:     req.ProjectHasCode,
		RequiresTempTarget: req.RequiresTempTarget,
		BundledLibraries:   req.BundledLibraries,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"target":             t.Name(),
		"ready":              status == platform.Ready,
		"status":             status.String(),
		"flags":              int(status),
		"documentation_path": docPath,
	})
}
