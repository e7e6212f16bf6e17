package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"MedMonitor/internal/model"
	"MedMonitor/internal/ws"
)

// MonitorService — dev-генератор показателей. Раз в интервал выдумывает
// измерение для каждого подключённого к live-каналу пользователя,
// прогоняет его через VitalsService и рассылает vital_update/alert кадры.
type MonitorService struct {
	vitals   *VitalsService
	hub      *ws.Hub
	logger   *zap.SugaredLogger
	interval time.Duration
	users    func() []int64 // список пользователей с активным соединением
}

func NewMonitorService(v *VitalsService, hub *ws.Hub, users func() []int64, logger *zap.SugaredLogger) *MonitorService {
	return &MonitorService{
		vitals:   v,
		hub:      hub,
		logger:   logger,
		interval: 5 * time.Second,
		users:    users,
	}
}

// Run крутит генератор до отмены контекста.
func (m *MonitorService) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Infow("monitor: started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			m.logger.Infow("monitor: stopped")
			return
		case <-ticker.C:
			for _, userID := range m.users() {
				m.emit(ctx, userID)
			}
		}
	}
}

// emit генерирует одно измерение и публикует его в live-канал.
func (m *MonitorService) emit(ctx context.Context, userID int64) {
	v := &model.VitalSign{
		UserID:      userID,
		HeartRate:   jitter(72, 12),
		SpO2:        jitter(97, 2),
		Temperature: jitter(36.6, 0.5),
		BPSystolic:  jitter(120, 12),
		BPDiastolic: jitter(80, 8),
		RecordedAt:  time.Now().UTC(),
	}

	alerts, err := m.vitals.Ingest(ctx, v)
	if err != nil {
		m.logger.Errorw("monitor: ingest failed", "user_id", userID, "error", err)
		return
	}

	m.hub.Send(userID, ws.Frame{Type: "vital_update", Data: map[string]any{
		"heart_rate":   v.HeartRate,
		"spo2":         v.SpO2,
		"temperature":  v.Temperature,
		"bp_systolic":  v.BPSystolic,
		"bp_diastolic": v.BPDiastolic,
	}})
	for i := range alerts {
		m.hub.Send(userID, ws.Frame{Type: "alert", Data: alerts[i]})
	}
}

// jitter возвращает base ± spread с редкими выбросами, чтобы пороги иногда срабатывали.
func jitter(base, spread float64) *float64 {
	v := base + (rand.Float64()*2-1)*spread
	if rand.Float64() < 0.03 {
		v += spread * 3
	}
	return &v
}
