package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"MedMonitor/internal/service"
)

// AnalyticsHandler обслуживает /api/analytics/*.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.SugaredLogger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.SugaredLogger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	s, err := h.analytics.Summarize(r.Context(), uid, days)
	if err != nil {
		h.logger.Errorw("analytics summary", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	metric := r.URL.Query().Get("metric")
	switch metric {
	case "heart_rate", "spo2", "temperature", "blood_pressure":
	default:
		respondError(w, http.StatusBadRequest, "unknown metric")
		return
	}
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	t, err := h.analytics.TrendFor(r.Context(), uid, metric, hours)
	if err != nil {
		h.logger.Errorw("analytics trends", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute trend")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *AnalyticsHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	buckets, err := h.analytics.Hourly(r.Context(), uid)
	if err != nil {
		h.logger.Errorw("analytics hourly", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute aggregates")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"hourly": buckets})
}

func (h *AnalyticsHandler) DeviceStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	s, err := h.analytics.DeviceStatsFor(r.Context(), uid)
	if err != nil {
		h.logger.Errorw("device stats", "user_id", uid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to compute device stats")
		return
	}
	respondJSON(w, http.StatusOK, s)
}
