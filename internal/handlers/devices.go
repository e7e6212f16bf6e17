package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MedMonitor/internal/service"
)

// DeviceHandler обслуживает /api/devices*.
type DeviceHandler struct {
	devices *service.DeviceService
	logger  *zap.SugaredLogger
}

func NewDeviceHandler(devices *service.DeviceService, logger *zap.SugaredLogger) *DeviceHandler {
	return &DeviceHandler{devices: devices, logger: logger}
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := h.devices.List(r.Context(), uid)
	if err != nil {
		h.logger.Errorw("list devices", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load devices")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"devices": list})
}

type registerDeviceRequest struct {
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
}

func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.DeviceType == "" {
		respondError(w, http.StatusBadRequest, "name and device_type are required")
		return
	}
	d, err := h.devices.Register(r.Context(), uid, req.Name, req.DeviceType)
	if err != nil {
		h.logger.Errorw("register device", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to register device")
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "deviceID")
	if err := h.devices.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			respondError(w, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Errorw("delete device", "user_id", uid, "device_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete device")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *DeviceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "deviceID")
	status := r.URL.Query().Get("status")

	d, err := h.devices.UpdateStatus(r.Context(), uid, id, status)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			respondError(w, http.StatusNotFound, "device not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, d)
}
