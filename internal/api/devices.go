package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/targetplatform/internal/device"
)

// addDeviceRequest is the body of POST .../devices.
type addDeviceRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Default     bool   `json:"default"`
}

// credentialsRequest is the body of PUT .../devices/{name}/credentials.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleListDevices returns the local device, if any, followed by the
// registered devices in insertion order.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	devices := t.GetAllDevices()
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleAddDevice registers a device with the target.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var req addDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := device.ValidateName(req.Name); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if err := device.ValidateDisplayName(req.DisplayName); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if err := device.ValidateCredentials(req.Username, req.Password); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if !t.AddDevice(req.Name, req.DisplayName, req.Username, req.Password, req.Default) {
		writeConflict(w, device.ErrDeviceExists.Error()+": "+req.Name)
		return
	}

	d, _ := t.GetDevice(device.ID{Platform: t.Name(), Name: req.Name})
	s.logger.Info("device added", "target", t.Name(), "device", req.Name)
	writeJSON(w, http.StatusCreated, d)
}

// handleGetDevice returns one device by name.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	d, found := t.GetDevice(device.ID{Platform: t.Name(), Name: name})
	if !found {
		writeNotFound(w, "device not found: "+name)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleGetDefaultDevice returns the local device, or 404 when the host
// cannot run the target.
func (s *Server) handleGetDefaultDevice(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	d, found := t.GetDefaultDevice()
	if !found {
		writeNotFound(w, "target has no default device")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleSetCredentials replaces a device's credentials.
func (s *Server) handleSetCredentials(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	name := chi.URLParam(r, "name")
	err := t.Registry().SetCredentials(name, req.Username, req.Password)
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		writeNotFound(w, "device not found: "+name)
		return
	case errors.Is(err, device.ErrInvalidCredentials):
		writeValidationError(w, err.Error())
		return
	case err != nil:
		writeInternalError(w, "failed to update credentials")
		return
	}

	d, _ := t.GetDevice(device.ID{Platform: t.Name(), Name: name})
	writeJSON(w, http.StatusOK, d)
}
