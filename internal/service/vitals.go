package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"MedMonitor/internal/model"
	"MedMonitor/internal/repo"
)

// VitalsService — приём измерений, выборки для дашборда и алерты.
type VitalsService struct {
	vitals repo.VitalsRepository
	alerts repo.AlertRepository
	logger *zap.SugaredLogger
}

func NewVitalsService(v repo.VitalsRepository, a repo.AlertRepository, logger *zap.SugaredLogger) *VitalsService {
	return &VitalsService{vitals: v, alerts: a, logger: logger}
}

// Ingest сохраняет измерение и заводит алерты по порогам.
// Возвращает созданные алерты, чтобы транспортный слой мог разослать их в live-канал.
func (s *VitalsService) Ingest(ctx context.Context, v *model.VitalSign) ([]model.Alert, error) {
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}
	if err := s.vitals.Insert(ctx, v); err != nil {
		return nil, err
	}

	var created []model.Alert
	check := func(vitalType string, value *float64) {
		if value == nil {
			return
		}
		a := CheckThresholds(v.UserID, vitalType, *value)
		if a == nil {
			return
		}
		if err := s.alerts.Create(ctx, a); err != nil {
			s.logger.Errorw("failed to store alert", "user_id", v.UserID, "vital_type", vitalType, "error", err)
			return
		}
		created = append(created, *a)
	}

	check("heart_rate", v.HeartRate)
	check("spo2", v.SpO2)
	check("temperature", v.Temperature)
	check("blood_pressure", v.BPSystolic)

	return created, nil
}

// Latest возвращает последнее измерение пользователя, nil если измерений ещё нет.
func (s *VitalsService) Latest(ctx context.Context, userID int64) (*model.VitalSign, error) {
	v, err := s.vitals.Latest(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return v, err
}

// History возвращает измерения за последние hours часов.
func (s *VitalsService) History(ctx context.Context, userID int64, hours int) ([]model.VitalSign, error) {
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return s.vitals.History(ctx, userID, since)
}

// RecentAlerts возвращает последние limit алертов пользователя.
func (s *VitalsService) RecentAlerts(ctx context.Context, userID int64, limit int) ([]model.Alert, error) {
	return s.alerts.Recent(ctx, userID, limit)
}
