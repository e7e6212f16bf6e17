package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MedMonitor/internal/middleware"
	"MedMonitor/internal/model"
	"MedMonitor/internal/service"
	"MedMonitor/internal/ws"
)

// VitalsHandler обслуживает /api/vitals/*.
type VitalsHandler struct {
	vitals *service.VitalsService
	hub    *ws.Hub
	logger *zap.SugaredLogger
}

func NewVitalsHandler(vitals *service.VitalsService, hub *ws.Hub, logger *zap.SugaredLogger) *VitalsHandler {
	return &VitalsHandler{vitals: vitals, hub: hub, logger: logger}
}

func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return 0, false
	}
	return uid, true
}

type addVitalsRequest struct {
	DeviceID    *string  `json:"device_id"`
	HeartRate   *float64 `json:"heart_rate"`
	SpO2        *float64 `json:"spo2"`
	Temperature *float64 `json:"temperature"`
	BPSystolic  *float64 `json:"bp_systolic"`
	BPDiastolic *float64 `json:"bp_diastolic"`
}

// Add принимает измерение, сохраняет его и транслирует в live-канал
// вместе с порожденными алертами.
func (h *VitalsHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addVitalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v := &model.VitalSign{
		UserID:      uid,
		DeviceID:    req.DeviceID,
		HeartRate:   req.HeartRate,
		SpO2:        req.SpO2,
		Temperature: req.Temperature,
		BPSystolic:  req.BPSystolic,
		BPDiastolic: req.BPDiastolic,
	}
	alerts, err := h.vitals.Ingest(r.Context(), v)
	if err != nil {
		h.logger.Errorw("ingest vitals", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store vitals")
		return
	}

	h.hub.Send(uid, ws.Frame{Type: "vital_update", Data: req})
	for i := range alerts {
		h.hub.Send(uid, ws.Frame{Type: "alert", Data: alerts[i]})
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": v.ID, "alerts": len(alerts)})
}

func (h *VitalsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	v, err := h.vitals.Latest(r.Context(), uid)
	if err != nil {
		h.logger.Errorw("latest vitals", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load vitals")
		return
	}
	if v == nil {
		respondJSON(w, http.StatusOK, map[string]any{"latest": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"latest": v})
}

func (h *VitalsHandler) History(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	vitalType := chi.URLParam(r, "vitalType")
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))

	history, err := h.vitals.History(r.Context(), uid, hours)
	if err != nil {
		h.logger.Errorw("vitals history", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	// плоская серия по одному типу показателя
	type point struct {
		Timestamp string  `json:"timestamp"`
		Value     float64 `json:"value"`
	}
	points := make([]point, 0, len(history))
	for i := range history {
		var p *float64
		switch vitalType {
		case "heart_rate":
			p = history[i].HeartRate
		case "spo2":
			p = history[i].SpO2
		case "temperature":
			p = history[i].Temperature
		case "blood_pressure":
			p = history[i].BPSystolic
		default:
			respondError(w, http.StatusBadRequest, "unknown vital type")
			return
		}
		if p != nil {
			points = append(points, point{Timestamp: history[i].RecordedAt.Format("2006-01-02T15:04:05Z07:00"), Value: *p})
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"vital_type": vitalType, "data": points})
}

func (h *VitalsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	alerts, err := h.vitals.RecentAlerts(r.Context(), uid, limit)
	if err != nil {
		h.logger.Errorw("recent alerts", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load alerts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// Dashboard — последнее измерение плюс последние алерты одним ответом.
func (h *VitalsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	latest, err := h.vitals.Latest(r.Context(), uid)
	if err != nil {
		h.logger.Errorw("dashboard latest", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	alerts, err := h.vitals.RecentAlerts(r.Context(), uid, 5)
	if err != nil {
		h.logger.Errorw("dashboard alerts", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"latest":    latest,
		"alerts":    alerts,
		"connected": h.hub.Connected(uid),
	})
}
