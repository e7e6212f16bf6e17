package service

import (
	"fmt"

	"github.com/google/uuid"

	"MedMonitor/internal/model"
)

// vitalThresholds — пороги из монитора показателей. Значения в единицах метрики.
type vitalThresholds struct {
	low          *float64
	high         *float64
	criticalLow  *float64
	criticalHigh *float64
}

func ptr(v float64) *float64 { return &v }

var thresholds = map[string]vitalThresholds{
	"heart_rate":     {low: ptr(50), high: ptr(100), criticalHigh: ptr(120)},
	"spo2":           {criticalLow: ptr(90), low: ptr(95)},
	"temperature":    {high: ptr(37.5), criticalHigh: ptr(39.0)},
	"blood_pressure": {high: ptr(140), criticalHigh: ptr(180)},
}

// CheckThresholds возвращает алерт, если значение вышло за пороги, иначе nil.
// Критичные пороги проверяются раньше обычных.
func CheckThresholds(userID int64, vitalType string, value float64) *model.Alert {
	limits, ok := thresholds[vitalType]
	if !ok {
		return nil
	}

	var kind, message string
	switch {
	case limits.criticalHigh != nil && value >= *limits.criticalHigh:
		kind = model.AlertCritical
		message = fmt.Sprintf("%s critically high: %.1f", vitalType, value)
	case limits.criticalLow != nil && value <= *limits.criticalLow:
		kind = model.AlertCritical
		message = fmt.Sprintf("%s critically low: %.1f", vitalType, value)
	case limits.high != nil && value >= *limits.high:
		kind = model.AlertWarning
		message = fmt.Sprintf("%s above normal: %.1f", vitalType, value)
	case limits.low != nil && value <= *limits.low:
		kind = model.AlertWarning
		message = fmt.Sprintf("%s below normal: %.1f", vitalType, value)
	default:
		return nil
	}

	return &model.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		VitalType: vitalType,
		Value:     value,
		Message:   message,
	}
}
